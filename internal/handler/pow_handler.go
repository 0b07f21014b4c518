package handler

import (
	"net/http"

	"digame/internal/pkg/errs"
	"digame/internal/pkg/logx"
	"digame/internal/pkg/req"
	"digame/internal/pkg/resp"
)

// ChallengeOutput is the proof-of-work challenge handed to clients.
type ChallengeOutput struct {
	Nonce      string `json:"nonce"`
	Difficulty int    `json:"difficulty"`
}

// VerifyInput is a client's answer to a challenge.
type VerifyInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// VerifyOutput carries the token to send in the X-PoW-Token header.
type VerifyOutput struct {
	Token string `json:"token"`
}

// HandleChallenge issues a new nonce. Difficulty 0 means no proof is needed.
func HandleChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.PoW == nil {
			resp.RespondSuccess(w, r, ChallengeOutput{})
			return
		}

		resp.RespondSuccess(w, r, ChallengeOutput{
			Nonce:      deps.PoW.GenerateNonce(),
			Difficulty: deps.PoW.Difficulty(),
		})
	}
}

// HandleVerify exchanges a solved challenge for a proof token.
func HandleVerify(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.PoW == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var input VerifyInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		token, err := deps.PoW.ValidateProof(input.Nonce, input.Counter)
		if err != nil {
			logx.Debug("Proof rejected.", "error", err.Error())
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidProof))
			return
		}

		resp.RespondSuccess(w, r, VerifyOutput{Token: token})
	}
}

// requireProof rejects requests without a redeemable proof token.
func requireProof(deps *AppDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if deps.PoW != nil && !deps.PoW.Redeem(r) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProofRequired))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
