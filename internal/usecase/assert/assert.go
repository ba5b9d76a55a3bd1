// Package assert evaluates batch step assertions against a step's outcome.
package assert

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/aalvaropc/suitemap/internal/domain"
)

func result(name string, passed bool, format string, args ...any) domain.AssertionResult {
	return domain.AssertionResult{Name: name, Passed: passed, Message: fmt.Sprintf(format, args...)}
}

// Success checks the remote status flag of the step.
func Success(expected bool, got bool) domain.AssertionResult {
	if got == expected {
		return result("success", true, "success %t", got)
	}
	return result("success", false, "expected success %t, got %t", expected, got)
}

func MaxLatency(maxMs int, latencyMs int64) domain.AssertionResult {
	if latencyMs <= int64(maxMs) {
		return result("max_ms", true, "latency %dms <= %dms", latencyMs, maxMs)
	}
	return result("max_ms", false, "expected latency <= %dms, got %dms", maxMs, latencyMs)
}

// Evaluate applies spec to a step outcome. doc is the step output normalized to
// generic JSON; it is only consulted by JSONPath assertions.
func Evaluate(spec domain.AssertionsSpec, success bool, latencyMs int64, doc any) []domain.AssertionResult {
	var out []domain.AssertionResult

	if spec.Success != nil {
		out = append(out, Success(*spec.Success, success))
	}
	if spec.MaxLatencyMS != nil {
		out = append(out, MaxLatency(*spec.MaxLatencyMS, latencyMs))
	}

	// Sorted so results are stable across runs.
	exprs := make([]string, 0, len(spec.JSONPath))
	for expr := range spec.JSONPath {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	for _, expr := range exprs {
		var val any
		var getErr error
		if doc == nil {
			getErr = fmt.Errorf("step produced no output")
		} else {
			val, getErr = jsonpath.Get(expr, doc)
		}
		out = append(out, jsonPathChecks(expr, spec.JSONPath[expr], val, getErr)...)
	}

	return out
}

func jsonPathChecks(expr string, a domain.JSONPathAssertion, val any, getErr error) []domain.AssertionResult {
	var out []domain.AssertionResult
	if a.Exists {
		out = append(out, checkExists(expr, val, getErr))
	}
	if a.Eq != nil {
		want := *a.Eq
		out = append(out, checkString("jsonpath.eq", expr, val, getErr, func(s string) (bool, string) {
			if s == want {
				return true, fmt.Sprintf("eq %q", want)
			}
			return false, fmt.Sprintf("expected %q, got %q", want, s)
		}))
	}
	if a.Contains != nil {
		sub := *a.Contains
		out = append(out, checkString("jsonpath.contains", expr, val, getErr, func(s string) (bool, string) {
			if strings.Contains(s, sub) {
				return true, fmt.Sprintf("contains %q", sub)
			}
			return false, fmt.Sprintf("%q does not contain %q", s, sub)
		}))
	}
	if a.Matches != nil {
		out = append(out, checkMatches(expr, val, getErr, *a.Matches))
	}
	if a.Gt != nil {
		limit := *a.Gt
		out = append(out, checkNumber("jsonpath.gt", expr, val, getErr, func(f float64) (bool, string) {
			if f > limit {
				return true, fmt.Sprintf("%v > %v", f, limit)
			}
			return false, fmt.Sprintf("expected > %v, got %v", limit, f)
		}))
	}
	if a.Lt != nil {
		limit := *a.Lt
		out = append(out, checkNumber("jsonpath.lt", expr, val, getErr, func(f float64) (bool, string) {
			if f < limit {
				return true, fmt.Sprintf("%v < %v", f, limit)
			}
			return false, fmt.Sprintf("expected < %v, got %v", limit, f)
		}))
	}
	return out
}

func checkExists(expr string, val any, getErr error) domain.AssertionResult {
	const name = "jsonpath.exists"
	if getErr != nil {
		return result(name, false, "jsonpath %q: %v", expr, getErr)
	}
	if isEmptyJSONPathValue(val) {
		return result(name, false, "jsonpath %q: expected value to exist, got empty", expr)
	}
	return result(name, true, "jsonpath %q exists", expr)
}

func checkString(name, expr string, val any, getErr error, check func(string) (bool, string)) domain.AssertionResult {
	if getErr != nil {
		return result(name, false, "jsonpath %q: %v", expr, getErr)
	}
	s, err := jsonPathToString(val)
	if err != nil {
		return result(name, false, "jsonpath %q: %v", expr, err)
	}
	ok, msg := check(s)
	return result(name, ok, "jsonpath %q: %s", expr, msg)
}

func checkMatches(expr string, val any, getErr error, pattern string) domain.AssertionResult {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return result("jsonpath.matches", false, "jsonpath %q: invalid regex %q: %v", expr, pattern, err)
	}
	return checkString("jsonpath.matches", expr, val, getErr, func(s string) (bool, string) {
		if re.MatchString(s) {
			return true, fmt.Sprintf("matches %q", pattern)
		}
		return false, fmt.Sprintf("%q does not match %q", s, pattern)
	})
}

func checkNumber(name, expr string, val any, getErr error, check func(float64) (bool, string)) domain.AssertionResult {
	if getErr != nil {
		return result(name, false, "jsonpath %q: %v", expr, getErr)
	}
	f, err := jsonPathToFloat64(val)
	if err != nil {
		return result(name, false, "jsonpath %q: %v", expr, err)
	}
	ok, msg := check(f)
	return result(name, ok, "jsonpath %q: %s", expr, msg)
}

func jsonPathToString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return fmt.Sprint(v), nil
	}
}

// jsonPathToFloat64 accepts numeric strings since decimal fields are rendered quoted.
func jsonPathToFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
}

func isEmptyJSONPathValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
