package storage

import (
	"fmt"
)

// Balance returns the spendable coins.
func (s *Store) Balance() (int, error) {
	var b int
	if err := s.db.QueryRow("SELECT balance FROM stats WHERE id = 1").Scan(&b); err != nil {
		return 0, fmt.Errorf("storage: cannot query balance: %w", err)
	}
	return b, nil
}

// Grant adds coins to the balance without counting them as earned.
func (s *Store) Grant(coins int) error {
	if _, err := s.db.Exec("UPDATE stats SET balance = balance + ? WHERE id = 1", coins); err != nil {
		return fmt.Errorf("storage: cannot grant coins: %w", err)
	}
	return nil
}

// Owned returns the set of purchased item IDs.
func (s *Store) Owned() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT item_id FROM purchases")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query purchases: %w", err)
	}
	defer rows.Close()

	owned := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		owned[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return owned, nil
}

// Purchase debits price and records the item. It fails with ErrAlreadyOwned
// or ErrInsufficientCoins and then changes nothing.
func (s *Store) Purchase(itemID string, price int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRow("SELECT COUNT(*) FROM purchases WHERE item_id = ?", itemID).Scan(&owned); err != nil {
		return fmt.Errorf("storage: cannot query purchases: %w", err)
	}
	if owned > 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyOwned, itemID)
	}

	var balance int
	if err := tx.QueryRow("SELECT balance FROM stats WHERE id = 1").Scan(&balance); err != nil {
		return fmt.Errorf("storage: cannot query balance: %w", err)
	}
	if balance < price {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientCoins, balance, price)
	}

	if _, err := tx.Exec("UPDATE stats SET balance = balance - ? WHERE id = 1", price); err != nil {
		return fmt.Errorf("storage: cannot debit balance: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO purchases (item_id, price) VALUES (?, ?)", itemID, price); err != nil {
		return fmt.Errorf("storage: cannot save purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit purchase: %w", err)
	}
	return nil
}

// Unlock marks items as owned for free. Items already owned are skipped.
func (s *Store) Unlock(itemIDs ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range itemIDs {
		if _, err := tx.Exec("INSERT OR IGNORE INTO purchases (item_id, price) VALUES (?, 0)", id); err != nil {
			return fmt.Errorf("storage: cannot unlock %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit unlock: %w", err)
	}
	return nil
}
