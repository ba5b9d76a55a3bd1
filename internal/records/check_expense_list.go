package records

import (
	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/record"
)

// CheckExpenseList is the expense sub-list of a check.
type CheckExpenseList struct {
	ReplaceAll *bool
	Expense    []*CheckExpense
}

var checkExpenseList = record.SublistSpec[CheckExpense]{
	Item:    "expense",
	Aliases: []string{"expenses"},
	Schema:  checkExpenseSchema,
}

// NewCheckExpenseList builds the list from {expense: [...]} attributes.
func NewCheckExpenseList(v any) (*CheckExpenseList, error) {
	l := &CheckExpenseList{}
	if err := l.Assign(v); err != nil {
		return nil, err
	}
	return l, nil
}

// Expenses is the legacy name of Expense.
func (l *CheckExpenseList) Expenses() []*CheckExpense { return l.Expense }

func (l *CheckExpenseList) EncodeAs(qname string) *domain.Node {
	return checkExpenseList.Encode(qname, l.ReplaceAll, l.Expense)
}

func (l *CheckExpenseList) Validate() error {
	return checkExpenseList.Validate(l.Expense)
}

func (l *CheckExpenseList) Decode(n *domain.Node) error {
	items, replaceAll, err := checkExpenseList.Decode(n)
	if err != nil {
		return err
	}
	l.Expense, l.ReplaceAll = items, replaceAll
	return nil
}

func (l *CheckExpenseList) Assign(v any) error {
	items, replaceAll, err := checkExpenseList.Assign(v)
	if err != nil {
		return err
	}
	l.Expense, l.ReplaceAll = items, replaceAll
	return nil
}

func (l *CheckExpenseList) JSON() any {
	return checkExpenseList.JSON(l.ReplaceAll, l.Expense)
}
