package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
)

const donationsRoute = "/api/donations"

// MakeDonation honours an optional Idempotency-Key header:
// - replay the stored response for the same subject+key+body
// - reject the same subject+key with a different body (409)
func (s *Server) MakeDonation(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body apitypes.CreateDonationRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	ctx := r.Context()

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	useIdem := s.Idem != nil && key != ""
	var respFP idempotency.Fingerprint
	if useIdem {
		bodyHash, err := hashCreateDonationBody(body)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		metaFP := idempotency.Fingerprint{
			Key:     idempotency.Key(key),
			Subject: sub,
			Method:  http.MethodPost,
			Route:   donationsRoute,
		}
		if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
			s.fail(w, r, err)
			return
		} else if ok {
			if string(meta.Body) != bodyHash {
				s.fail(w, r, apperr.IdempotencyKeyReuse())
				return
			}
		} else {
			_ = s.Idem.Put(ctx, metaFP, idempotency.Record{
				StatusCode:  0,
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   time.Now().UTC(),
			})
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
			s.fail(w, r, err)
			return
		} else if ok && rec.StatusCode == http.StatusCreated {
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	var amount float64
	if body.Amount != nil {
		amount = *body.Amount
	}
	d, err := s.Donations.Make(ctx, sub, amount, body.Campaign)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	b, err := json.Marshal(apitypes.DonationFromDomain(d, nil))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if useIdem {
		_ = s.Idem.Put(ctx, respFP, idempotency.Record{
			StatusCode:  http.StatusCreated,
			ContentType: "application/json",
			Body:        b,
			CreatedAt:   time.Now().UTC(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(b)
}

func (s *Server) ListDonations(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	ds, err := s.Donations.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]apitypes.Donation, 0, len(ds))
	for _, d := range ds {
		out = append(out, apitypes.DonationFromDomain(d.Donation, d.DonorInfo))
	}
	writeJSON(w, http.StatusOK, out)
}

func hashCreateDonationBody(b apitypes.CreateDonationRequest) (string, error) {
	canon := b
	if canon.Campaign != nil {
		c := strings.TrimSpace(*canon.Campaign)
		canon.Campaign = &c
	}
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
