package testutil

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple creation with defaults (an expense of 10)
//	tx := testutil.NewTransaction().Build(t, db)
//
//	// Customized transaction
//	tx := testutil.NewTransaction().
//	    Income().
//	    WithAmount("500").
//	    WithDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	Description string
	Category    string
	Amount      decimal.Decimal
	IsIncome    bool
	Date        time.Time
	CreatedAt   time.Time
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction() *TransactionBuilder {
	now := time.Now().UTC()
	return &TransactionBuilder{
		ID:          MakeSequentialID(),
		Description: MakeDescription("Groceries"),
		Category:    "general",
		Amount:      decimal.NewFromInt(10),
		IsIncome:    false,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:   now,
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithDescription sets a custom description.
func (b *TransactionBuilder) WithDescription(desc string) *TransactionBuilder {
	b.Description = desc
	return b
}

// WithCategory sets a custom category.
func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	b.Category = category
	return b
}

// WithAmount sets the amount from its decimal text. Panics on malformed input.
func (b *TransactionBuilder) WithAmount(amount string) *TransactionBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// Income marks the transaction as income.
func (b *TransactionBuilder) Income() *TransactionBuilder {
	b.IsIncome = true
	return b
}

// Expense marks the transaction as an expense.
func (b *TransactionBuilder) Expense() *TransactionBuilder {
	b.IsIncome = false
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO transactions (id, description, category, amount, is_income, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.Description,
		b.Category,
		b.Amount.String(),
		b.IsIncome,
		b.Date.Format("2006-01-02"),
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:          b.ID,
		Description: b.Description,
		Category:    b.Category,
		Amount:      b.Amount,
		IsIncome:    b.IsIncome,
		Date:        b.Date,
		CreatedAt:   b.CreatedAt,
	}
}

// InvestmentBuilder provides a fluent interface for creating test investments.
//
// Example usage:
//
//	inv := testutil.NewInvestment().WithProfitLoss("30").Build(t, db)
type InvestmentBuilder struct {
	ID         string
	Name       string
	Amount     decimal.Decimal
	ProfitLoss decimal.NullDecimal
	CreatedAt  time.Time
}

// NewInvestment creates an InvestmentBuilder with no profit/loss recorded.
func NewInvestment() *InvestmentBuilder {
	return &InvestmentBuilder{
		ID:        MakeID(),
		Name:      MakeDescription("Index Fund"),
		Amount:    decimal.NewFromInt(1000),
		CreatedAt: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *InvestmentBuilder) WithID(id string) *InvestmentBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *InvestmentBuilder) WithName(name string) *InvestmentBuilder {
	b.Name = name
	return b
}

// WithAmount sets the invested amount from its decimal text.
func (b *InvestmentBuilder) WithAmount(amount string) *InvestmentBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithProfitLoss records a profit/loss from its decimal text.
func (b *InvestmentBuilder) WithProfitLoss(profitLoss string) *InvestmentBuilder {
	b.ProfitLoss = decimal.NewNullDecimal(decimal.RequireFromString(profitLoss))
	return b
}

// Build creates the investment in the database and returns it.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	query := `
		INSERT INTO investments (id, name, amount, profit_loss, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	var profitLoss any
	if b.ProfitLoss.Valid {
		profitLoss = b.ProfitLoss.Decimal.String()
	}

	_, err := db.Exec(query,
		b.ID,
		b.Name,
		b.Amount.String(),
		profitLoss,
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}

	return model.Investment{
		ID:         b.ID,
		Name:       b.Name,
		Amount:     b.Amount,
		ProfitLoss: b.ProfitLoss,
		CreatedAt:  b.CreatedAt,
	}
}

// NoteBuilder provides a fluent interface for creating test notes.
//
// Example usage:
//
//	note := testutil.NewNote().
//	    WithAttachments("gs://media/a.jpg", "gs://media/b.jpg").
//	    Build(t, db)
type NoteBuilder struct {
	ID          string
	Title       string
	Content     string
	Attachments []string
	CreatedAt   time.Time
}

// NewNote creates a NoteBuilder without attachments.
func NewNote() *NoteBuilder {
	return &NoteBuilder{
		ID:          MakeSequentialID(),
		Title:       MakeDescription("Note"),
		Content:     "Test content",
		Attachments: []string{},
		CreatedAt:   time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *NoteBuilder) WithID(id string) *NoteBuilder {
	b.ID = id
	return b
}

// WithTitle sets a custom title.
func (b *NoteBuilder) WithTitle(title string) *NoteBuilder {
	b.Title = title
	return b
}

// WithAttachments replaces the attachment list.
func (b *NoteBuilder) WithAttachments(uris ...string) *NoteBuilder {
	b.Attachments = uris
	return b
}

// Build creates the note in the database and returns it.
func (b *NoteBuilder) Build(t *testing.T, db *sql.DB) model.Note {
	t.Helper()

	query := `
		INSERT INTO notes (id, title, content, attachments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	created := b.CreatedAt.UTC().Format(time.RFC3339Nano)
	_, err := db.Exec(query, b.ID, b.Title, b.Content, strings.Join(b.Attachments, ","), created, created)
	if err != nil {
		t.Fatalf("Failed to create test note: %v", err)
	}

	return model.Note{
		ID:          b.ID,
		Title:       b.Title,
		Content:     b.Content,
		Attachments: b.Attachments,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.CreatedAt,
	}
}
