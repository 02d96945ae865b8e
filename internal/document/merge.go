package document

import "strings"

// Strategy selects how one key is combined during a deep merge.
type Strategy int

const (
	// StrategyDefault defers to the built-in rule: merge when both sides are
	// plain objects, replace otherwise.
	StrategyDefault Strategy = iota
	// StrategyMerge recurses into both values. Falls back to replace when
	// either side is not a plain object.
	StrategyMerge
	// StrategyReplace substitutes the override value wholesale.
	StrategyReplace
	// StrategyKeep discards the override value and keeps the base.
	StrategyKeep
)

// MergeContext describes the key being merged for a Resolver.
type MergeContext struct {
	// Key is the final path segment.
	Key string
	// Path is the full key path from the root, dot-joined in String form.
	Path []string
	// OldValue is the base side, nil when the key is new.
	OldValue interface{}
	// NewValue is the override side.
	NewValue interface{}
}

// PathString returns the dot-joined key path.
func (c MergeContext) PathString() string {
	return strings.Join(c.Path, ".")
}

// Resolver picks a merge strategy for a key. Returning StrategyDefault hands
// the decision back to the built-in rule.
type Resolver func(MergeContext) Strategy

// DeepMerge combines override into base and returns a new map; neither input
// is mutated. For every key in override the strategy is resolved via the
// optional resolver, falling back to the default rule.
func DeepMerge(base, override map[string]interface{}, resolver Resolver) map[string]interface{} {
	return deepMerge(base, override, resolver, nil)
}

func deepMerge(base, override map[string]interface{}, resolver Resolver, path []string) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}

	for key, newValue := range override {
		oldValue, exists := out[key]
		keyPath := append(append([]string{}, path...), key)

		strategy := StrategyDefault
		if resolver != nil {
			strategy = resolver(MergeContext{
				Key:      key,
				Path:     keyPath,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
		if strategy == StrategyDefault {
			if exists && isPlainObject(oldValue) && isPlainObject(newValue) {
				strategy = StrategyMerge
			} else {
				strategy = StrategyReplace
			}
		}

		switch strategy {
		case StrategyKeep:
			if !exists {
				// Nothing to keep; the key stays absent.
				continue
			}
		case StrategyMerge:
			oldObj, oldOK := oldValue.(map[string]interface{})
			newObj, newOK := newValue.(map[string]interface{})
			if oldOK && newOK {
				out[key] = deepMerge(oldObj, newObj, resolver, keyPath)
			} else {
				out[key] = newValue
			}
		default: // StrategyReplace
			out[key] = newValue
		}
	}
	return out
}

// isPlainObject reports whether v is a JSON object (not array, not nil).
func isPlainObject(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	return ok && m != nil
}

// PathRule binds a dot-joined path pattern to a strategy. Patterns support a
// single-segment wildcard `*`; there is no multi-segment wildcard.
type PathRule struct {
	Pattern  string
	Strategy Strategy
}

// PathResolver builds a Resolver that matches dot-joined key paths against
// the given rules in order. The first matching rule wins; no match yields
// StrategyDefault.
func PathResolver(rules []PathRule) Resolver {
	type compiled struct {
		segments []string
		strategy Strategy
	}
	compiledRules := make([]compiled, 0, len(rules))
	for _, r := range rules {
		compiledRules = append(compiledRules, compiled{
			segments: strings.Split(r.Pattern, "."),
			strategy: r.Strategy,
		})
	}

	return func(ctx MergeContext) Strategy {
		for _, rule := range compiledRules {
			if matchSegments(rule.segments, ctx.Path) {
				return rule.strategy
			}
		}
		return StrategyDefault
	}
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return true
}

// ServerReplaceResolver forces whole-object replacement for entries of a
// server-definition map. Without it, updating a server definition would merge
// stale fields (old args, old env) from the previous definition into the new
// one.
func ServerReplaceResolver() Resolver {
	return PathResolver([]PathRule{
		{Pattern: "mcp.*", Strategy: StrategyReplace},
		{Pattern: "mcpServers.*", Strategy: StrategyReplace},
		{Pattern: "servers.*", Strategy: StrategyReplace},
	})
}
