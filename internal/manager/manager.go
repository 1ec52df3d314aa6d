// Package manager orchestrates one notification request end-to-end:
// dedup, quiet hours, routing and per-channel dispatch with isolated
// failure handling.
package manager

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	repo "github.com/ilindan-dev/alertgate/internal/domain/repository"
	"github.com/ilindan-dev/alertgate/internal/senders"
	"github.com/ilindan-dev/alertgate/pkg/fingerprint"
	"github.com/rs/zerolog"
)

// Manager processes send requests against a fixed registry of channel
// senders. Configuration is read-only after construction; the dedup store
// is the only shared mutable state.
type Manager struct {
	registry     senders.Registry
	router       *Router
	quiet        *QuietHours
	dedup        repo.DedupStore
	history      repo.HistoryRepository // optional, nil disables auditing
	includeLevel bool
	sendTimeout  time.Duration
	now          func() time.Time
	logger       zerolog.Logger
}

// NewManager wires the orchestration pipeline.
func NewManager(
	cfg *config.Config,
	registry senders.Registry,
	dedup repo.DedupStore,
	history repo.HistoryRepository,
	logger *zerolog.Logger,
) (*Manager, error) {
	quiet, err := NewQuietHours(cfg.QuietHours)
	if err != nil {
		return nil, err
	}

	return &Manager{
		registry:     registry,
		router:       NewRouter(registry, cfg.Events),
		quiet:        quiet,
		dedup:        dedup,
		history:      history,
		includeLevel: cfg.DedupIncludeLevel,
		sendTimeout:  cfg.SendTimeout(),
		now:          time.Now,
		logger:       logger.With().Str("component", "manager").Logger(),
	}, nil
}

// Send dispatches one request and returns the full per-channel
// accounting. Suppression short-circuits before any channel is contacted;
// a failure on one channel never aborts delivery to the others.
func (m *Manager) Send(ctx context.Context, req *model.Request) model.AggregateResult {
	log := m.logger.With().Stringer("request_id", req.ID).Str("event", req.Event).Logger()
	now := m.now()

	fp := fingerprint.New(req.Event, req.Title, req.Content, string(req.Level), m.includeLevel)

	// Dedup is evaluated once per request: identity depends on the
	// message, not on the channel set. Forced requests skip the check but
	// still arm suppression for later duplicates.
	if req.Force {
		if err := m.dedup.Record(ctx, fp, now); err != nil {
			log.Error().Err(err).Msg("failed to record fingerprint for forced send")
		}
	} else {
		allowed, err := m.dedup.CheckAndRecord(ctx, fp, now)
		if err != nil {
			// A broken dedup store must not block delivery.
			log.Error().Err(err).Msg("dedup check failed, allowing send")
		} else if !allowed {
			log.Info().Str("fingerprint", fp).Msg("duplicate within window, suppressing")
			return m.finish(ctx, req, model.Suppressed(req.ID, model.ReasonDuplicate))
		}
	}

	if m.quiet.IsSuppressed(now, req.Level, req.Force) {
		log.Info().Msg("inside quiet hours, suppressing")
		return m.finish(ctx, req, model.Suppressed(req.ID, model.ReasonQuietHours))
	}

	resolution := m.router.Resolve(req.Channels, req.Event)
	if len(resolution.Targets) == 0 {
		log.Warn().Msg("no eligible channels for request")
		return m.finish(ctx, req, model.Aggregate(req.ID, resolution.Skipped))
	}

	results := m.dispatch(ctx, req.Render(), resolution.Targets, log)
	results = append(results, resolution.Skipped...)
	sortResults(results)

	res := model.Aggregate(req.ID, results)
	log.Info().Str("outcome", string(res.Outcome)).Int("channels", len(resolution.Targets)).Msg("request processed")
	return m.finish(ctx, req, res)
}

// dispatch contacts every target channel concurrently, each under its own
// timeout, and collects one result per channel.
func (m *Manager) dispatch(ctx context.Context, msg *model.Message, targets []model.Channel, log zerolog.Logger) []model.ChannelResult {
	results := make([]model.ChannelResult, len(targets))
	var wg sync.WaitGroup

	for i, ch := range targets {
		wg.Add(1)
		go func(i int, ch model.Channel) {
			defer wg.Done()
			results[i] = m.sendOne(ctx, ch, msg, log)
		}(i, ch)
	}

	wg.Wait()
	return results
}

// sendOne performs the delivery for a single channel with at most one
// immediate retry. This process is a short-lived dispatcher, not a
// durable queue, so there is no backoff and no persistence.
func (m *Manager) sendOne(ctx context.Context, ch model.Channel, msg *model.Message, log zerolog.Logger) model.ChannelResult {
	sender := m.registry[ch]

	sendCtx, cancel := context.WithTimeout(ctx, m.sendTimeout)
	defer cancel()

	err := sender.Send(sendCtx, msg)
	if err != nil && sendCtx.Err() == nil {
		log.Warn().Err(err).Str("channel", string(ch)).Msg("send failed, retrying once")
		err = sender.Send(sendCtx, msg)
	}
	if err != nil {
		return model.ChannelResult{Channel: ch, Status: model.StatusFailed, Error: err.Error()}
	}
	return model.ChannelResult{Channel: ch, Status: model.StatusSent}
}

// finish persists the audit record when a history repository is
// configured. Auditing is best-effort and never changes the outcome.
func (m *Manager) finish(ctx context.Context, req *model.Request, res model.AggregateResult) model.AggregateResult {
	if m.history != nil {
		if err := m.history.RecordDispatch(ctx, req, res); err != nil {
			m.logger.Error().Err(err).Stringer("request_id", req.ID).Msg("failed to record delivery history")
		}
	}
	return res
}

// sortResults orders per-channel results in the fixed reporting order,
// with unknown channel names last.
func sortResults(results []model.ChannelResult) {
	order := make(map[model.Channel]int, len(model.KnownChannels))
	for i, ch := range model.KnownChannels {
		order[ch] = i
	}
	rank := func(r model.ChannelResult) int {
		if i, ok := order[r.Channel]; ok {
			return i
		}
		return len(order)
	}
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := rank(results[i]), rank(results[j])
		if ri != rj {
			return ri < rj
		}
		return results[i].Channel < results[j].Channel
	})
}
