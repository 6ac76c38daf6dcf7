package authz

import (
	"path"
	"strings"
)

// BuildPolicy grants or denies invoke on the whole API the method ARN belongs to,
// so a cached decision covers every route for the same caller.
func BuildPolicy(principalID string, effect Effect, methodARN string) *AuthorizerResponse {
	return &AuthorizerResponse{
		PrincipalID: principalID,
		PolicyDocument: PolicyDocument{
			Version: PolicyVersion,
			Statement: []Statement{{
				Action:   InvokeAction,
				Effect:   effect,
				Resource: WildcardResource(methodARN),
			}},
		},
	}
}

// WildcardResource turns arn:aws:execute-api:{region}:{account}:{api}/{stage}/{verb}/{path}
// into arn:aws:execute-api:{region}:{account}:{api}/{stage}/*. Values that do not
// look like a method ARN are returned unchanged.
func WildcardResource(methodARN string) string {
	parts := strings.SplitN(methodARN, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" {
		return methodARN
	}

	apiID, rest, ok := strings.Cut(parts[5], "/")
	if !ok || apiID == "" {
		return methodARN
	}
	stage, _, _ := strings.Cut(rest, "/")
	if stage == "" {
		return methodARN
	}

	parts[5] = apiID + "/" + stage + "/*"
	return strings.Join(parts, ":")
}

// Permits reports whether the policy lets the caller invoke methodARN.
// An explicit Deny on a matching resource wins over any Allow.
func (r *AuthorizerResponse) Permits(methodARN string) bool {
	allowed := false
	for _, st := range r.PolicyDocument.Statement {
		if st.Action != InvokeAction && st.Action != "execute-api:*" && st.Action != "*" {
			continue
		}
		if !resourceMatches(st.Resource, methodARN) {
			continue
		}
		if st.Effect == EffectDeny {
			return false
		}
		if st.Effect == EffectAllow {
			allowed = true
		}
	}
	return allowed
}

// Effect of the first statement.
func (r *AuthorizerResponse) Effect() Effect {
	if len(r.PolicyDocument.Statement) == 0 {
		return EffectDeny
	}
	return r.PolicyDocument.Statement[0].Effect
}

func resourceMatches(pattern, arn string) bool {
	if pattern == arn || pattern == "*" {
		return true
	}
	// path.Match stops '*' at '/', which ARN wildcards do not.
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok && strings.HasPrefix(arn, prefix+"/") {
		return true
	}
	ok, err := path.Match(pattern, arn)
	return err == nil && ok
}
