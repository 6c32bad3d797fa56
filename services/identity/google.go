package identitysvc

import (
	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/pkg/errors"

	"github.com/ieee-its/nightslip/core"
)

// googleService checks tokens against Google's public certs and pins the
// audience to our OAuth client ID.
type googleService struct {
	clientID string
}

var _ core.IdentityService = (*googleService)(nil)

func NewGoogleService(clientID string) core.IdentityService {
	return &googleService{clientID: clientID}
}

func (svc googleService) Verify(idToken string) (core.Identity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{svc.clientID}); err != nil {
		return core.Identity{}, core.ErrInvalidIDToken
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return core.Identity{}, errors.Wrap(err, "decoding ID token")
	}
	return core.Identity{Email: claimSet.Email, Name: claimSet.Name}, nil
}
