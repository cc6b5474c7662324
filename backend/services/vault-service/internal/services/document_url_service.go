package services

import (
	"context"
	"time"

	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-storage"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type ResolveInput struct {
	URL string
	// UserID is the caller; signable references must belong to it when the policy says so.
	UserID string
	// Enabled is nil when the caller did not choose.
	Enabled   *bool
	ExpiresIn time.Duration
}

// DocumentURLService turns stored vault references into URLs a browser can open.
type DocumentURLService struct {
	signer        storage.Signer
	policy        storage.AccessPolicy
	metrics       *metrics.Collector
	enabled       bool
	defaultExpiry time.Duration
}

// NewDocumentURLService builds the service. enabled is the deployment-wide switch;
// a request can only turn resolution off, never on. policy guards every signing call.
func NewDocumentURLService(signer storage.Signer, policy storage.AccessPolicy, m *metrics.Collector, enabled bool, defaultExpiry time.Duration) *DocumentURLService {
	if defaultExpiry <= 0 {
		defaultExpiry = storage.DefaultExpiry
	}
	return &DocumentURLService{
		signer:        signer,
		policy:        policy,
		metrics:       m,
		enabled:       enabled,
		defaultExpiry: defaultExpiry,
	}
}

// Options maps a request onto resolver options.
func (s *DocumentURLService) Options(in ResolveInput) storage.Options {
	expiry := in.ExpiresIn
	if expiry <= 0 {
		expiry = s.defaultExpiry
	}
	return storage.Options{
		Disabled:  !s.enabled || (in.Enabled != nil && !*in.Enabled),
		ExpiresIn: expiry,
	}
}

// Signer returns a signer that records call latency.
func (s *DocumentURLService) Signer() storage.Signer {
	return storage.SignerFunc(func(ctx context.Context, obj storage.ObjectRef, expiresIn time.Duration) (string, error) {
		start := time.Now()
		defer s.metrics.ObserveCall("sign_url", start)
		return s.signer.SignURL(ctx, obj, expiresIn)
	})
}

// Check reports whether in may be resolved for its caller. References that will
// not be signed always pass.
func (s *DocumentURLService) Check(in ResolveInput) error {
	return s.authorize(storage.Classify(in.URL), s.Options(in), in.UserID)
}

func (s *DocumentURLService) authorize(ref storage.Reference, opts storage.Options, userID string) error {
	if ref.Kind != storage.KindSignable || opts.Disabled {
		return nil
	}
	return s.policy.Authorize(ref, userID)
}

func (s *DocumentURLService) Resolve(ctx context.Context, in ResolveInput) storage.Result {
	opts := s.Options(in)
	ref := storage.Classify(in.URL)

	logger := utils.Logger.WithFields(logrus.Fields{
		"kind":   ref.Kind.String(),
		"userID": in.UserID,
	})

	if err := s.authorize(ref, opts, in.UserID); err != nil {
		s.metrics.URLResolution(metrics.OutcomeDenied)
		logger.WithFields(logrus.Fields{
			"host":   ref.Host,
			"bucket": ref.Object.Bucket,
			"path":   ref.Object.Path,
		}).WithError(err).Warn("Refused to sign document URL")
		return storage.Failure(in.URL, storage.ErrAccessDenied)
	}

	res := storage.Resolve(ctx, s.Signer(), in.URL, opts)

	outcome := metrics.OutcomePassThrough
	switch {
	case ref.Kind != storage.KindSignable:
	case opts.Disabled:
		outcome = metrics.OutcomeDisabled
	case res.ResolveError != "":
		outcome = metrics.OutcomeSignFailed
	default:
		outcome = metrics.OutcomeSigned
	}
	s.metrics.URLResolution(outcome)

	logger = logger.WithField("outcome", outcome)
	if res.ResolveError != "" {
		logger.WithFields(logrus.Fields{
			"bucket": ref.Object.Bucket,
			"path":   ref.Object.Path,
		}).Warn(res.ResolveError)
	} else {
		logger.Debug("Document URL resolved")
	}
	return res
}
