// Package resolver turns free-text chemical identifiers into PubChem CIDs
// and lists the vendors PubChem knows to carry a compound.
package resolver

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/JDY-exe/PurePEG-price-fetch/config"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
)

// pugNotFound is the PUG REST fault code for a definitive miss, as opposed
// to a server or transport failure.
const pugNotFound = "PUGREST.NotFound"

// cidList is the PUG REST identifier-list response shape.
type cidList struct {
	IdentifierList struct {
		CID []int `json:"CID"`
	} `json:"IdentifierList"`
}

// pugFault is the PUG REST error body.
type pugFault struct {
	Fault struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Fault"`
}

// Resolver resolves identifiers against PubChem. It is safe for concurrent
// use; outbound calls are throttled to PubChem's published request cap.
type Resolver struct {
	client  *resty.Client
	limiter *rate.Limiter
	cache   *idCache
}

// New creates a Resolver for the given PubChem configuration.
func New(cfg config.PubChemConfig, cacheCfg config.IDCacheConfig) *Resolver {
	return &Resolver{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:   newIDCache(cacheCfg.MaxEntries, cacheCfg.TTL),
	}
}

// Resolve turns a free-text identifier into a canonical CID.
//
// The identifier is first treated as a compound name. Only a definitive
// PUGREST.NotFound triggers the SMILES fallback; any other upstream failure
// aborts immediately without trying the fallback. When multiple candidate
// CIDs come back, the first one wins.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (int, error) {
	if strings.TrimSpace(identifier) == "" {
		return 0, models.NewFetchError(models.ErrCodeValidation, "identifier must not be blank", nil)
	}

	if cid, ok := r.cache.get(identifier); ok {
		return cid, nil
	}

	cid, err := r.lookupCID(ctx, "/rest/pug/compound/name/{identifier}/cids/JSON", identifier)
	if err != nil {
		fe, ok := err.(*models.FetchError)
		if !ok || fe.Code != models.ErrCodeNotFound {
			return 0, err
		}
		// Name path missed; retry the identifier as a SMILES string.
		slog.Debug("name lookup missed, trying SMILES fallback", "identifier", identifier)
		cid, err = r.lookupCID(ctx, "/rest/pug/compound/smiles/{identifier}/cids/JSON", identifier)
		if err != nil {
			return 0, err
		}
	}

	r.cache.put(identifier, cid)
	return cid, nil
}

// lookupCID performs one PUG REST CID lookup and classifies the outcome.
func (r *Resolver) lookupCID(ctx context.Context, path, identifier string) (int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return 0, models.NewFetchError(models.ErrCodeUpstream, "lookup canceled while throttled", err)
	}

	var list cidList
	var fault pugFault
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("identifier", identifier).
		SetResult(&list).
		SetError(&fault).
		Get(path)
	if err != nil {
		return 0, models.NewFetchError(models.ErrCodeUpstream, "compound lookup request failed", err)
	}

	if resp.IsError() {
		if fault.Fault.Code == pugNotFound {
			return 0, models.NewFetchError(models.ErrCodeNotFound, "no compound matches the identifier", nil)
		}
		return 0, models.NewFetchError(models.ErrCodeUpstream,
			"compound lookup failed: "+upstreamMessage(resp.StatusCode(), fault.Fault.Message), nil)
	}

	if len(list.IdentifierList.CID) == 0 {
		return 0, models.NewFetchError(models.ErrCodeNotFound, "no compound matches the identifier", nil)
	}
	return list.IdentifierList.CID[0], nil
}

func upstreamMessage(status int, faultMsg string) string {
	if faultMsg != "" {
		return faultMsg
	}
	return "status " + strconv.Itoa(status)
}
