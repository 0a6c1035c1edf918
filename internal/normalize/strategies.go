package normalize

import "github.com/tidwall/gjson"

// Strategy is one named way of locating the candidate request body inside an
// invocation. Match must not have side effects.
type Strategy struct {
	Name  string
	Match func(inv gjson.Result) (gjson.Result, bool)
}

// Strategy names, in resolution order.
const (
	StrategyBody       = "body"
	StrategyRootText   = "root-text"
	StrategyDirect     = "direct"
	StrategyNestedScan = "nested-scan"
)

// Strategies is the default resolution order; the first match wins.
var Strategies = []Strategy{
	{Name: StrategyBody, Match: MatchBody},
	{Name: StrategyRootText, Match: MatchRootText},
	{Name: StrategyDirect, Match: MatchDirect},
	{Name: StrategyNestedScan, Match: MatchNestedScan},
}

// MatchBody matches a non-null body field. A string body is decoded as JSON;
// an undecodable string still matches, with an empty candidate, so the caller
// reports it instead of falling through to the other strategies.
func MatchBody(inv gjson.Result) (gjson.Result, bool) {
	body := inv.Get("body")
	if !body.Exists() || body.Type == gjson.Null {
		return gjson.Result{}, false
	}
	if body.Type != gjson.String {
		return body, true
	}
	if !gjson.Valid(body.Str) {
		return gjson.Result{}, true
	}
	return gjson.Parse(body.Str), true
}

// MatchRootText matches when the invocation itself carries a text field, as
// console test events do.
func MatchRootText(inv gjson.Result) (gjson.Result, bool) {
	if inv.Get("text").Exists() {
		return inv, true
	}
	return gjson.Result{}, false
}

// MatchDirect treats an invocation without gateway markers as the body.
func MatchDirect(inv gjson.Result) (gjson.Result, bool) {
	if inv.Get("httpMethod").Exists() || inv.Get("resource").Exists() {
		return gjson.Result{}, false
	}
	return inv, true
}

// MatchNestedScan returns the first top-level object value, in document
// order, that has a text field.
func MatchNestedScan(inv gjson.Result) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	inv.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() && value.Get("text").Exists() {
			found = value
			ok = true
			return false
		}
		return true
	})
	return found, ok
}
