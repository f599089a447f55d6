package xl

import (
	"fmt"

	"github.com/adnsv/srw/xml"
)

// CondType is the kind of a conditional formatting rule.
type CondType int

const (
	// CondCellIs compares the cell value with Value, or with MinValue and
	// MaxValue for the between operators.
	CondCellIs CondType = iota
	// CondExpression applies the format where the formula Value is true.
	// Relative references are relative to the top left cell of the range.
	CondExpression
	CondDuplicate
	CondUnique
	CondBlanks
	CondNoBlanks
)

// CondOperator is the comparison of a CondCellIs rule.
type CondOperator string

const (
	CondEqual              CondOperator = "equal"
	CondNotEqual           CondOperator = "notEqual"
	CondGreaterThan        CondOperator = "greaterThan"
	CondLessThan           CondOperator = "lessThan"
	CondGreaterThanOrEqual CondOperator = "greaterThanOrEqual"
	CondLessThanOrEqual    CondOperator = "lessThanOrEqual"
	CondBetween            CondOperator = "between"
	CondNotBetween         CondOperator = "notBetween"
)

// ConditionalFormat is a rule that applies Format to the cells of a range
// that satisfy it. Format is a differential format: only the properties it
// sets override the cell's own format.
type ConditionalFormat struct {
	Type       CondType
	Operator   CondOperator
	Value      string
	MinValue   string
	MaxValue   string
	Format     Format
	StopIfTrue bool
}

type condFormat struct {
	sqref    string
	topLeft  string
	rule     ConditionalFormat
	dxf      int
	priority int
}

// ConditionalFormat adds a rule for the cells in ref, e.g. "B2:D10".
// Rules added earlier take precedence.
func (sh *Sheet) ConditionalFormat(ref string, cf ConditionalFormat) error {
	if err := sh.workbook.checkOpen(); err != nil {
		return sh.reject(0, 0, err)
	}
	r0, c0, r1, c1, err := RangeToRowCol(ref)
	if err != nil {
		return sh.reject(0, 0, err)
	}

	future := sh.workbook.opts.FutureFunctions
	switch cf.Type {
	case CondCellIs:
		switch cf.Operator {
		case CondBetween, CondNotBetween:
			if cf.MinValue == "" || cf.MaxValue == "" {
				return sh.reject(r0, c0, fmt.Errorf("%w: %s needs a minimum and a maximum", ErrValue, cf.Operator))
			}
			cf.MinValue = prepareFormula(cf.MinValue, future)
			cf.MaxValue = prepareFormula(cf.MaxValue, future)
		case CondEqual, CondNotEqual, CondGreaterThan, CondLessThan,
			CondGreaterThanOrEqual, CondLessThanOrEqual:
			if cf.Value == "" {
				return sh.reject(r0, c0, fmt.Errorf("%w: %s needs a value", ErrValue, cf.Operator))
			}
			cf.Value = prepareFormula(cf.Value, future)
		default:
			return sh.reject(r0, c0, fmt.Errorf("%w: unknown operator %q", ErrValue, cf.Operator))
		}
	case CondExpression:
		if cf.Value = prepareFormula(cf.Value, future); cf.Value == "" {
			return sh.reject(r0, c0, fmt.Errorf("%w: empty expression", ErrValue))
		}
	case CondDuplicate, CondUnique, CondBlanks, CondNoBlanks:
	default:
		return sh.reject(r0, c0, fmt.Errorf("%w: unknown rule type %d", ErrValue, cf.Type))
	}

	dxf, err := sh.workbook.styles.registerDXF(cf.Format)
	if err != nil {
		return sh.reject(r0, c0, err)
	}
	sh.conds = append(sh.conds, condFormat{
		sqref:    RangeName(r0, c0, r1, c1),
		topLeft:  RowColToCellName(r0, c0),
		rule:     cf,
		dxf:      dxf,
		priority: len(sh.conds) + 1,
	})
	return nil
}

// writeConditionalFormats groups the rules by range, in order of first
// use.
func writeConditionalFormats(x *xml.Writer, conds []condFormat) {
	var order []string
	groups := map[string][]condFormat{}
	for _, c := range conds {
		if _, ok := groups[c.sqref]; !ok {
			order = append(order, c.sqref)
		}
		groups[c.sqref] = append(groups[c.sqref], c)
	}

	for _, sqref := range order {
		x.OTag("+conditionalFormatting").Attr("sqref", sqref)
		for _, c := range groups[sqref] {
			writeCFRule(x, c)
		}
		x.CTag()
	}
}

func writeCFRule(x *xml.Writer, c condFormat) {
	r := c.rule
	x.OTag("+cfRule")
	switch r.Type {
	case CondCellIs:
		x.Attr("type", "cellIs")
	case CondExpression:
		x.Attr("type", "expression")
	case CondDuplicate:
		x.Attr("type", "duplicateValues")
	case CondUnique:
		x.Attr("type", "uniqueValues")
	case CondBlanks:
		x.Attr("type", "containsBlanks")
	case CondNoBlanks:
		x.Attr("type", "notContainsBlanks")
	}
	x.Attr("dxfId", c.dxf)
	x.Attr("priority", c.priority)
	if r.StopIfTrue {
		x.Attr("stopIfTrue", 1)
	}

	switch r.Type {
	case CondCellIs:
		x.Attr("operator", string(r.Operator))
		if r.Operator == CondBetween || r.Operator == CondNotBetween {
			x.OTag("formula").Write(r.MinValue).CTag()
			x.OTag("formula").Write(r.MaxValue).CTag()
		} else {
			x.OTag("formula").Write(r.Value).CTag()
		}
	case CondExpression:
		x.OTag("formula").Write(r.Value).CTag()
	case CondBlanks:
		x.OTag("formula").Write("LEN(TRIM(" + c.topLeft + "))=0").CTag()
	case CondNoBlanks:
		x.OTag("formula").Write("LEN(TRIM(" + c.topLeft + "))>0").CTag()
	}
	x.CTag()
}
