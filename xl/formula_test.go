package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepareFormula(t *testing.T) {
	tests := []struct {
		in     string
		future bool
		want   string
	}{
		{"=SUM(A1:A3)", false, "SUM(A1:A3)"},
		{"  =A1+1 ", false, "A1+1"},
		{"=XLOOKUP(A1,B:B,C:C)", false, "XLOOKUP(A1,B:B,C:C)"},
		{"=XLOOKUP(A1,B:B,C:C)", true, "_xlfn.XLOOKUP(A1,B:B,C:C)"},
		{"=xlookup(a1,b:b,c:c)", true, "_xlfn.xlookup(a1,b:b,c:c)"},
		{"=FILTER(A1:A5,B1:B5>2)", true, "_xlfn._xlws.FILTER(A1:A5,B1:B5>2)"},
		{"=SUM(A1:A3)", true, "SUM(A1:A3)"},
		{"=_xlfn.XLOOKUP(A1,B:B,C:C)", true, "_xlfn.XLOOKUP(A1,B:B,C:C)"},
		{`=IF(A1="IFS(",IFS(B1>0,1),0)`, true, `IF(A1="IFS(",_xlfn.IFS(B1>0,1),0)`},
		{"=STDEV.S(A1:A9)+STDEV(A1:A9)", true, "_xlfn.STDEV.S(A1:A9)+STDEV(A1:A9)"},
		{"", true, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prepareFormula(tt.in, tt.future), tt.in)
	}
}

func TestPrefixCallsSkipsQuotedNames(t *testing.T) {
	calls := map[string]bool{"CONCAT": true}
	got := prefixCalls(`'CONCAT(x'!A1&CONCAT(B1,"it""s CONCAT(")`, calls)
	assert.Equal(t, `'CONCAT(x'!A1&_xlfn.CONCAT(B1,"it""s CONCAT(")`, got)
}
