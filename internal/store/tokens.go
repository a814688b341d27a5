package store

import (
	"context"
	"fmt"
	"log"

	"canteenq/internal/domain"
)

func (a *Adapter) FetchAllTokens(ctx context.Context) ([]domain.Token, error) {
	rows, err := a.db.Query(ctx, `SELECT id, customer_name, phone_number, status, booking_time, status_change_time FROM tokens ORDER BY id`)
	if err != nil {
		return nil, storeErr("fetch tokens", err)
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var t domain.Token
		if err := rows.Scan(&t.ID, &t.CustomerName, &t.PhoneNumber, &t.Status, &t.BookingTime, &t.StatusChangeTime); err != nil {
			return nil, storeErr("scan token", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("fetch tokens", err)
	}
	return tokens, nil
}

func (a *Adapter) CreateToken(ctx context.Context, token domain.Token) error {
	_, err := a.db.Exec(ctx, `INSERT INTO tokens (id, customer_name, phone_number, status, booking_time, status_change_time)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		token.ID, token.CustomerName, token.PhoneNumber, token.Status, token.BookingTime, token.StatusChangeTime)
	if err != nil {
		return storeErr("create token", err)
	}
	a.notifyChanged(ctx, tokensChannel)
	return nil
}

// UpdateToken merges the given fields into the token with the matching id.
// An unknown id is a silent no-op per the adapter contract.
func (a *Adapter) UpdateToken(ctx context.Context, id int64, fields map[string]interface{}) error {
	set, args, err := buildSetClause(fields, tokenColumns)
	if err != nil {
		return storeErr("update token", err)
	}
	args = append(args, id)
	cmd, err := a.db.Exec(ctx, fmt.Sprintf(`UPDATE tokens SET %s WHERE id=$%d`, set, len(args)), args...)
	if err != nil {
		return storeErr("update token", err)
	}
	if cmd.RowsAffected() == 0 {
		log.Printf("store: update token %d matched nothing", id)
		return nil
	}
	a.notifyChanged(ctx, tokensChannel)
	return nil
}

func (a *Adapter) RemoveToken(ctx context.Context, id int64) error {
	cmd, err := a.db.Exec(ctx, `DELETE FROM tokens WHERE id=$1`, id)
	if err != nil {
		return storeErr("remove token", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil
	}
	a.notifyChanged(ctx, tokensChannel)
	return nil
}

func (a *Adapter) SubscribeTokens(ctx context.Context, fn func([]domain.Token)) (func(), error) {
	return a.subscribe(ctx, tokensChannel, func(ctx context.Context) {
		tokens, err := a.FetchAllTokens(ctx)
		if err != nil {
			log.Printf("store: refresh tokens snapshot: %v", err)
			return
		}
		fn(tokens)
	})
}
