package xl

import (
	"strings"

	"github.com/xuri/efp"
)

// futureFunctions are the functions Excel stores with an _xlfn. prefix
// because they were added after the 2007 file format was fixed.
var futureFunctions = map[string]string{}

func init() {
	for _, name := range []string{
		"ACOT", "ACOTH", "AGGREGATE", "ANCHORARRAY", "ARABIC", "BASE",
		"BETA.DIST", "BETA.INV", "BINOM.DIST", "BINOM.DIST.RANGE", "BINOM.INV",
		"BITAND", "BITLSHIFT", "BITOR", "BITRSHIFT", "BITXOR", "BYCOL", "BYROW",
		"CEILING.MATH", "CEILING.PRECISE", "CHISQ.DIST", "CHISQ.DIST.RT",
		"CHISQ.INV", "CHISQ.INV.RT", "CHISQ.TEST", "CHOOSECOLS", "CHOOSEROWS",
		"COMBINA", "CONCAT", "CONFIDENCE.NORM", "CONFIDENCE.T", "COT", "COTH",
		"COVARIANCE.P", "COVARIANCE.S", "CSC", "CSCH", "DAYS", "DECIMAL",
		"DROP", "ECMA.CEILING", "ERF.PRECISE", "ERFC.PRECISE", "EXPAND",
		"EXPON.DIST", "F.DIST", "F.DIST.RT", "F.INV", "F.INV.RT", "F.TEST",
		"FILTERXML", "FLOOR.MATH", "FLOOR.PRECISE", "FORECAST.ETS",
		"FORECAST.ETS.CONFINT", "FORECAST.ETS.SEASONALITY", "FORECAST.ETS.STAT",
		"FORECAST.LINEAR", "FORMULATEXT", "GAMMA", "GAMMA.DIST", "GAMMA.INV",
		"GAMMALN.PRECISE", "GAUSS", "HSTACK", "HYPGEOM.DIST", "IFNA", "IFS",
		"IMCOSH", "IMCOT", "IMCSC", "IMCSCH", "IMSEC", "IMSECH", "IMSINH",
		"IMTAN", "ISFORMULA", "ISO.CEILING", "ISOMITTED", "ISOWEEKNUM", "LAMBDA",
		"LET", "LOGNORM.DIST", "LOGNORM.INV", "MAKEARRAY", "MAP", "MAXIFS",
		"MINIFS", "MODE.MULT", "MODE.SNGL", "MUNIT", "NEGBINOM.DIST",
		"NETWORKDAYS.INTL", "NORM.DIST", "NORM.INV", "NORM.S.DIST",
		"NORM.S.INV", "NUMBERVALUE", "PDURATION", "PERCENTILE.EXC",
		"PERCENTILE.INC", "PERCENTRANK.EXC", "PERCENTRANK.INC", "PERMUTATIONA",
		"PHI", "POISSON.DIST", "QUARTILE.EXC", "QUARTILE.INC", "QUERYSTRING",
		"RANDARRAY", "RANK.AVG", "RANK.EQ", "REDUCE", "RRI", "SCAN", "SEC",
		"SECH", "SEQUENCE", "SHEET", "SHEETS", "SKEW.P", "SORTBY", "STDEV.P",
		"STDEV.S", "SWITCH", "T.DIST", "T.DIST.2T", "T.DIST.RT", "T.INV",
		"T.INV.2T", "T.TEST", "TAKE", "TEXTAFTER", "TEXTBEFORE", "TEXTJOIN",
		"TEXTSPLIT", "TOCOL", "TOROW", "UNICHAR", "UNICODE", "UNIQUE", "VAR.P",
		"VAR.S", "VSTACK", "WEBSERVICE", "WEIBULL.DIST", "WORKDAY.INTL",
		"WRAPCOLS", "WRAPROWS", "XLOOKUP", "XMATCH", "XOR", "Z.TEST",
	} {
		futureFunctions[name] = "_xlfn."
	}
	// worksheet functions that also carry the _xlws. namespace
	for _, name := range []string{"FILTER", "SORT"} {
		futureFunctions[name] = "_xlfn._xlws."
	}
}

// prepareFormula strips the leading '=' and, when future is set, adds the
// _xlfn. prefix to the names of newer functions.
func prepareFormula(formula string, future bool) string {
	formula = strings.TrimPrefix(strings.TrimSpace(sanitizeText(formula)), "=")
	if !future || formula == "" {
		return formula
	}

	ps := efp.ExcelParser()
	calls := map[string]bool{}
	for _, t := range ps.Parse(formula) {
		if t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart {
			if _, ok := futureFunctions[strings.ToUpper(t.TValue)]; ok {
				calls[strings.ToUpper(t.TValue)] = true
			}
		}
	}
	if len(calls) == 0 {
		return formula
	}
	return prefixCalls(formula, calls)
}

// prefixCalls rewrites name( to prefix+name( for every name in calls,
// leaving string literals and quoted sheet names alone.
func prefixCalls(formula string, calls map[string]bool) string {
	var sb strings.Builder
	sb.Grow(len(formula) + 8*len(calls))
	i := 0
	for i < len(formula) {
		c := formula[i]
		if c == '"' || c == '\'' {
			j := i + 1
			for j < len(formula) {
				if formula[j] == c {
					if j+1 < len(formula) && formula[j+1] == c {
						j += 2
						continue
					}
					break
				}
				j++
			}
			j = min(j+1, len(formula))
			sb.WriteString(formula[i:j])
			i = j
			continue
		}
		if isNameStart(c) && (i == 0 || !isNameChar(formula[i-1])) {
			j := i
			for j < len(formula) && isNameChar(formula[j]) {
				j++
			}
			name := formula[i:j]
			if j < len(formula) && formula[j] == '(' && calls[strings.ToUpper(name)] {
				sb.WriteString(futureFunctions[strings.ToUpper(name)])
			}
			sb.WriteString(name)
			i = j
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String()
}

func isNameStart(c byte) bool {
	return isLetter(c) || c == '_'
}

func isNameChar(c byte) bool {
	return isLetter(c) || '0' <= c && c <= '9' || c == '_' || c == '.'
}
