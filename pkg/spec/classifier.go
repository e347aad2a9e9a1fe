package spec

import "strings"

// Rules parameterizes the action classifier.
type Rules struct {
	// SecretsDomain is the canonical secrets file.
	SecretsDomain string

	// CanonicalSecrets are names always propagated from the secrets domain
	// regardless of which file documents them.
	CanonicalSecrets []string

	// SecretKeywords mark a name as secret-like by substring match.
	SecretKeywords []string

	// AddressKeywords mark a name as network-topology addressing.
	AddressKeywords []string

	// IdentityKeywords mark a name as part of a blockchain identity
	// (address/private-key pairs propagated from the wallet setup).
	IdentityKeywords []string
}

// DefaultRules returns the built-in rule set. Callers typically override
// SecretsDomain and extend CanonicalSecrets from the tool configuration.
func DefaultRules() Rules {
	return Rules{
		SecretsDomain: ".env.secrets",
		SecretKeywords: []string{
			"SECRET", "PASSWORD", "KEY", "PRIVATE",
		},
		AddressKeywords: []string{
			"HOST", "PORT", "URL", "URI", "ONION",
		},
		IdentityKeywords: []string{
			"TRON_ADDRESS", "WALLET_ADDRESS", "PAYOUT_ADDRESS",
		},
	}
}

// Classify assigns a remediation action to a documented variable. It is a
// pure function of its arguments: identical inputs always yield the
// identical action.
//
// The rule list is ordered, first match wins:
//
//  0. An explicit category tag on the row bypasses keyword inference.
//  1. Secret-like (BASE64/HEX format or secret keyword) documented in the
//     secrets domain or on the canonical-secret allowlist -> SEED.
//  2. Secret-like otherwise -> CREATE.
//  3. Addressing keyword outside the secrets domain -> SEED.
//  4. Blockchain-identity keyword -> SEED.
//  5. Default -> MANUAL.
func Classify(name string, format Format, owningFile string, category Category, r Rules) Action {
	switch category {
	case CategorySecret:
		if owningFile == r.SecretsDomain || containsName(r.CanonicalSecrets, name) {
			return ActionSeed
		}
		return ActionCreate
	case CategoryTopology, CategoryIdentity:
		return ActionSeed
	case CategoryManual:
		return ActionManual
	}

	secretLike := format == FormatBase64 || format == FormatHex ||
		matchesKeyword(name, r.SecretKeywords)
	if secretLike {
		if owningFile == r.SecretsDomain || containsName(r.CanonicalSecrets, name) {
			return ActionSeed
		}
		return ActionCreate
	}

	if matchesKeyword(name, r.AddressKeywords) && owningFile != r.SecretsDomain {
		return ActionSeed
	}

	if matchesKeyword(name, r.IdentityKeywords) {
		return ActionSeed
	}

	return ActionManual
}

func matchesKeyword(name string, keywords []string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
