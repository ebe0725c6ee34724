package normalizer

import (
	"encoding/json"
	"fmt"

	"flexreviews/models"

	"github.com/go-playground/validator/v10"
)

// validate checks raw provider structs at the ingestion boundary
var validate = validator.New()

// Options controls normalization policy
type Options struct {
	// DeriveRatingFromCategories averages category scores into an overall
	// rating when the provider supplies none
	DeriveRatingFromCategories bool
}

// Reject is a raw entry that failed required-field checks. Rejected entries
// never abort the batch; every input record ends up in either the review or
// the reject list.
type Reject struct {
	Reason string      `json:"reason"`
	Entry  interface{} `json:"entry"`
}

// Normalize converts a raw provider payload into canonical reviews plus
// rejects. listingID is only consulted for sources whose payloads carry no
// per-entry listing reference (Google). The error return covers payloads that
// cannot be decoded at all; per-record problems go to the reject list.
func Normalize(source string, listingID uint, payload []byte, opts Options) ([]models.Review, []Reject, error) {
	switch source {
	case models.SourceHostaway:
		var envelope HostawayResponse
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, nil, fmt.Errorf("%w: malformed hostaway payload: %v", models.ErrValidation, err)
		}
		reviews, rejected := NormalizeHostaway(envelope.Result, opts)
		return reviews, rejected, nil
	case models.SourceGoogle:
		var details GooglePlaceDetails
		if err := json.Unmarshal(payload, &details); err != nil {
			return nil, nil, fmt.Errorf("%w: malformed google payload: %v", models.ErrValidation, err)
		}
		reviews, rejected := NormalizeGoogle(listingID, details.Result.Reviews)
		return reviews, rejected, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown review source %q", models.ErrValidation, source)
	}
}
