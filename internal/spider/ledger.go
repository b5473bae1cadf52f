package spider

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// TransactionType classifies ledger entries.
type TransactionType string

const (
	TxGeneration TransactionType = "generation"
	TxBreeding   TransactionType = "breeding"
	TxHeal       TransactionType = "heal"
	TxSummon     TransactionType = "summon"
	TxWebtrap    TransactionType = "webtrap"
)

// Transaction is one auditable economic effect. Amounts are positive for
// credits and negative for debits, in SPIDER tokens.
type Transaction struct {
	ID          string          `csv:"id" json:"id"`
	UserID      string          `csv:"user_id" json:"user_id"`
	Type        TransactionType `csv:"type" json:"type"`
	Amount      float64         `csv:"amount" json:"amount"`
	Description string          `csv:"description" json:"description"`
	CreatedAt   time.Time       `csv:"created_at" json:"created_at"`
}

// NewTransaction builds a transaction record with a fresh ID.
func NewTransaction(userID string, txType TransactionType, amount float64, description string, now time.Time) Transaction {
	return Transaction{
		ID:          NewID("tx"),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	}
}

// Ledger is the append-only transaction log. The core emits transaction
// descriptions through it; persistence beyond the CSV export belongs to a
// real storage collaborator.
type Ledger struct {
	mu      sync.RWMutex
	records []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a transaction.
func (l *Ledger) Append(tx Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, tx)
}

// Records returns a copy of all recorded transactions in append order.
func (l *Ledger) Records() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Transaction, len(l.records))
	copy(out, l.records)
	return out
}

// RecordsFor returns the transactions of one user, in append order.
func (l *Ledger) RecordsFor(userID string) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Transaction
	for _, tx := range l.records {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// ExportCSV writes the full ledger as CSV with headers.
func (l *Ledger) ExportCSV(w io.Writer) error {
	records := l.Records()
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing ledger csv: %w", err)
	}
	return nil
}

// WriteFile exports the ledger CSV to a file, replacing any previous
// export.
func (l *Ledger) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger file: %w", err)
	}
	defer f.Close()
	return l.ExportCSV(f)
}
