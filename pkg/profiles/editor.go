package profiles

import (
	"fmt"
	"strconv"
	"strings"

	"promoctl/pkg/minimums"
	"promoctl/pkg/models"
)

// DefaultPlatform scopes engagement rules that do not name a platform. The
// backend historically assumed Instagram here even though single promos are
// multi-platform; rules stay platform-scoped so the assumption is visible.
const DefaultPlatform = "Instagram"

// Field names the editor input a validation error belongs to.
type Field string

const (
	FieldFixedQuantity Field = "fixed_quantity"
	FieldMinQuantity   Field = "min_quantity"
	FieldMaxQuantity   Field = "max_quantity"
)

// ValidationError is a client-side rule failure. Exactly one is surfaced per
// editing pass, pointing at the first offending field in row order.
type ValidationError struct {
	EngagementType string
	Field          Field
	Reason         string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.EngagementType, e.Field, e.Reason)
}

// ErrDuplicateType is returned when a second rule for the same engagement
// type is added to one editing session.
type ErrDuplicateType struct {
	EngagementType string
}

func (e *ErrDuplicateType) Error() string {
	return fmt.Sprintf("%q has already been added", e.EngagementType)
}

// Row is one engagement rule being edited. Quantity inputs are kept as raw
// strings until validation, matching what the operator typed.
type Row struct {
	Type     string
	Platform string
	Random   bool
	Fixed    string
	Min      string
	Max      string
	Loops    string
}

// Editor builds and validates the variable set of per-engagement-type rules
// for one profile-editing session. Row order is preserved through to output.
type Editor struct {
	table *minimums.Table
	rows  []*Row
}

// NewEditor creates an editing session against a minimum-quantity table.
func NewEditor(table *minimums.Table) *Editor {
	if table == nil {
		table = minimums.Empty()
	}
	return &Editor{table: table}
}

// AddRule appends a rule row for an engagement type. At most one rule per
// type is allowed in a session.
func (e *Editor) AddRule(engagementType, platform string) (*Row, error) {
	if engagementType == "" {
		return nil, fmt.Errorf("engagement type cannot be empty")
	}
	if _, ok := e.Row(engagementType); ok {
		return nil, &ErrDuplicateType{EngagementType: engagementType}
	}
	if platform == "" {
		platform = DefaultPlatform
	}
	row := &Row{Type: engagementType, Platform: platform, Loops: "1"}
	e.rows = append(e.rows, row)
	return row, nil
}

// RemoveRule drops the row for an engagement type.
func (e *Editor) RemoveRule(engagementType string) bool {
	for i, row := range e.rows {
		if row.Type == engagementType {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return true
		}
	}
	return false
}

// SetRandom toggles a row between fixed and random quantity entry, clearing
// the fields that belong to the deselected mode.
func (e *Editor) SetRandom(engagementType string, random bool) bool {
	row, ok := e.Row(engagementType)
	if !ok {
		return false
	}
	if row.Random == random {
		return true
	}
	row.Random = random
	if random {
		row.Fixed = ""
	} else {
		row.Min = ""
		row.Max = ""
	}
	return true
}

// Row returns the row for an engagement type.
func (e *Editor) Row(engagementType string) (*Row, bool) {
	for _, row := range e.rows {
		if row.Type == engagementType {
			return row, true
		}
	}
	return nil, false
}

// Rows returns the rows in insertion order.
func (e *Editor) Rows() []*Row {
	return e.rows
}

// MinimumFor exposes the looked-up minimum for a row's platform and type.
func (e *Editor) MinimumFor(platform, engagementType string) int {
	return e.table.MinimumFor(platform, engagementType)
}

// Load seeds the session from a saved profile's rules, one row per rule in
// stored order.
func (e *Editor) Load(rules []models.EngagementRule) {
	e.rows = nil
	for _, rule := range rules {
		row, err := e.AddRule(rule.Type, rule.Platform)
		if err != nil {
			continue
		}
		row.Random = rule.UseRandomQuantity
		if rule.FixedQuantity != nil {
			row.Fixed = strconv.Itoa(*rule.FixedQuantity)
		}
		if rule.MinQuantity != nil {
			row.Min = strconv.Itoa(*rule.MinQuantity)
		}
		if rule.MaxQuantity != nil {
			row.Max = strconv.Itoa(*rule.MaxQuantity)
		}
		if rule.Loops > 0 {
			row.Loops = strconv.Itoa(rule.Loops)
		}
	}
}

// Rules validates every row and returns the well-formed rules in row order.
// Rows with no quantity data at all are considered not configured and
// omitted. Validation stops at the first failure across all rows.
func (e *Editor) Rules() ([]models.EngagementRule, error) {
	var rules []models.EngagementRule
	for _, row := range e.rows {
		rule, ok, err := e.validateRow(row)
		if err != nil {
			return nil, err
		}
		if ok {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (e *Editor) validateRow(row *Row) (models.EngagementRule, bool, error) {
	minRequired := e.table.MinimumFor(row.Platform, row.Type)
	rule := models.EngagementRule{
		Type:              row.Type,
		Platform:          row.Platform,
		UseRandomQuantity: row.Random,
		Loops:             parseLoops(row.Loops),
	}

	if row.Random {
		minVal := strings.TrimSpace(row.Min)
		maxVal := strings.TrimSpace(row.Max)
		if minVal == "" && maxVal == "" {
			return rule, false, nil
		}
		minQty, err := parsePositive(minVal)
		if err != nil {
			return rule, false, &ValidationError{EngagementType: row.Type, Field: FieldMinQuantity, Reason: "minimum quantity must be a positive number"}
		}
		maxQty, err := parsePositive(maxVal)
		if err != nil {
			return rule, false, &ValidationError{EngagementType: row.Type, Field: FieldMaxQuantity, Reason: "maximum quantity must be a positive number"}
		}
		if minQty > maxQty {
			return rule, false, &ValidationError{EngagementType: row.Type, Field: FieldMinQuantity, Reason: "minimum cannot be greater than maximum"}
		}
		if minQty < minRequired {
			return rule, false, &ValidationError{
				EngagementType: row.Type,
				Field:          FieldMinQuantity,
				Reason:         fmt.Sprintf("minimum for random must be at least %d", minRequired),
			}
		}
		rule.MinQuantity = &minQty
		rule.MaxQuantity = &maxQty
		return rule, true, nil
	}

	fixedVal := strings.TrimSpace(row.Fixed)
	if fixedVal == "" {
		return rule, false, nil
	}
	fixed, err := parsePositive(fixedVal)
	if err != nil {
		return rule, false, &ValidationError{EngagementType: row.Type, Field: FieldFixedQuantity, Reason: "fixed quantity must be a positive number"}
	}
	if fixed < minRequired {
		return rule, false, &ValidationError{
			EngagementType: row.Type,
			Field:          FieldFixedQuantity,
			Reason:         fmt.Sprintf("minimum fixed quantity is %d", minRequired),
		}
	}
	rule.FixedQuantity = &fixed
	return rule, true, nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("not positive: %d", n)
	}
	return n, nil
}

func parseLoops(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
