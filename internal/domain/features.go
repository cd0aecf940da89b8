package domain

import m "github.com/droidmod/gatepatch/internal/model"

// Catalog returns the ordered feature sequence. Order is fixed; every
// pass applies enabled features in exactly this sequence, and no
// feature's outcome affects another's eligibility.
//
// Behavioral features (login/integrity/vpn) edit existing instructions
// in place instead of replacing whole bodies. They are tagged low
// confidence and ship disabled; the config layer enables them only on
// explicit opt-in.
func Catalog() []m.Feature {
	return []m.Feature{
		{
			Name:         "vip-unlock",
			Description:  "force membership and purchase flags to true",
			UnitKeywords: []string{"user", "account", "member", "model", "bean", "info", "response", "entity", "dto"},
			FieldRules: []m.Rule{
				{
					Name:       "gate-boolean-true",
					Keywords:   []string{"vip", "svip", "premium", "member", "purchased", "paid", "buy"},
					Kind:       m.RuleReturnBoolean,
					BoolValue:  true,
					Comment:    "membership gate forced true",
					Confidence: m.ConfidenceHigh,
				},
			},
			Confidence: m.ConfidenceHigh,
			Default:    true,
		},
		{
			Name:         "content-unlock",
			Description:  "unlock paywalled episodes, videos and chapters",
			UnitKeywords: []string{"item", "episode", "drama", "video", "album", "chapter", "book", "model", "bean"},
			FieldRules: []m.Rule{
				{
					Name:       "gate-boolean-false",
					Keywords:   []string{"lock", "needpay", "needbuy", "needvip", "charge"},
					Kind:       m.RuleReturnBoolean,
					BoolValue:  false,
					Comment:    "content lock forced false",
					Confidence: m.ConfidenceHigh,
				},
				{
					Name:       "gate-boolean-true",
					Keywords:   []string{"free", "unlocked", "canwatch", "canplay"},
					Kind:       m.RuleReturnBoolean,
					BoolValue:  true,
					Comment:    "content access forced true",
					Confidence: m.ConfidenceHigh,
				},
			},
			Confidence: m.ConfidenceHigh,
			Default:    true,
		},
		{
			Name:         "coin-zero",
			Description:  "zero out coin and currency prices",
			UnitKeywords: []string{"item", "episode", "drama", "video", "album", "goods", "product", "model", "bean", "response"},
			FieldRules: []m.Rule{
				{
					Name:       "gate-integer-zero",
					Keywords:   []string{"price", "coin", "cost", "gold", "diamond", "money", "amount"},
					Kind:       m.RuleReturnInteger,
					IntValue:   0,
					Comment:    "price gate forced to zero",
					Confidence: m.ConfidenceHigh,
				},
			},
			Confidence: m.ConfidenceHigh,
			Default:    true,
		},
		{
			Name:         "level-max",
			Description:  "raise user level and grade gates to the ceiling",
			UnitKeywords: []string{"user", "account", "member", "model", "bean", "info"},
			FieldRules: []m.Rule{
				{
					Name:       "gate-integer-ceiling",
					Keywords:   []string{"level", "grade", "rank"},
					Kind:       m.RuleReturnInteger,
					IntValue:   9999999,
					Comment:    "level gate raised to ceiling",
					Confidence: m.ConfidenceHigh,
				},
			},
			Confidence: m.ConfidenceHigh,
			Default:    true,
		},
		{
			Name:         "ad-free",
			Description:  "turn off ad display switches",
			UnitKeywords: []string{"model", "bean", "config", "response", "info"},
			FieldRules: []m.Rule{
				{
					Name:       "gate-boolean-false",
					Keywords:   []string{"showad", "hasad", "adenable", "adswitch"},
					Kind:       m.RuleReturnBoolean,
					BoolValue:  false,
					Comment:    "ad switch forced false",
					Confidence: m.ConfidenceHigh,
				},
			},
			Confidence: m.ConfidenceHigh,
			Default:    true,
		},
		{
			Name:        "login-bypass",
			Description: "flip login/session checks to true (in-place edit)",
			MethodRules: []m.Rule{
				{
					Name:       "gate-flip-true",
					Keywords:   []string{"login", "logined", "auth", "session"},
					Kind:       m.RuleFlipBoolean,
					BoolValue:  true,
					Comment:    "login gate flipped",
					Confidence: m.ConfidenceLow,
				},
			},
			Confidence: m.ConfidenceLow,
			Default:    false,
		},
		{
			Name:        "integrity-bypass",
			Description: "flip root/tamper/debugger checks to false (in-place edit)",
			MethodRules: []m.Rule{
				{
					Name:       "gate-flip-false",
					Keywords:   []string{"root", "rooted", "tamper", "sign", "debug", "hook", "xposed"},
					Kind:       m.RuleFlipBoolean,
					BoolValue:  false,
					Comment:    "integrity gate flipped",
					Confidence: m.ConfidenceLow,
				},
			},
			Confidence: m.ConfidenceLow,
			Default:    false,
		},
		{
			Name:        "vpn-bypass",
			Description: "flip vpn/proxy/region checks to false (in-place edit)",
			MethodRules: []m.Rule{
				{
					Name:       "gate-flip-false",
					Keywords:   []string{"vpn", "proxy", "blocked", "forbidden"},
					Kind:       m.RuleFlipBoolean,
					BoolValue:  false,
					Comment:    "network gate flipped",
					Confidence: m.ConfidenceLow,
				},
			},
			Confidence: m.ConfidenceLow,
			Default:    false,
		},
	}
}

// FeatureByName looks a feature up in the catalog.
func FeatureByName(name string) (m.Feature, bool) {
	for _, feature := range Catalog() {
		if feature.Name == name {
			return feature, true
		}
	}

	return m.Feature{}, false
}
