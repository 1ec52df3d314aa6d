package manager

import (
	"sort"
	"strings"

	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/ilindan-dev/alertgate/internal/senders"
)

// Router resolves the final channel set for a request from the explicit
// override, the event routing table and the enabled-channel registry.
type Router struct {
	registry senders.Registry
	// rules maps an event type (exact name or prefix) to a channel list.
	rules map[string][]model.Channel
	// prefixes holds the rule keys sorted longest-first for prefix lookup.
	prefixes []string
}

// NewRouter builds a router from the config's events table.
func NewRouter(registry senders.Registry, events map[string][]string) *Router {
	rules := make(map[string][]model.Channel, len(events))
	prefixes := make([]string, 0, len(events))
	for event, names := range events {
		channels := make([]model.Channel, 0, len(names))
		for _, name := range names {
			channels = append(channels, model.Channel(name))
		}
		rules[event] = channels
		prefixes = append(prefixes, event)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	return &Router{registry: registry, rules: rules, prefixes: prefixes}
}

// Resolution is the outcome of routing one request: the channels to
// contact plus the channels excluded, each with its reason.
type Resolution struct {
	Targets []model.Channel
	Skipped []model.ChannelResult
}

// Resolve applies the routing algorithm: an explicit request set wins,
// otherwise the event table picks the candidates (exact match first, then
// the longest matching prefix), otherwise every enabled channel is a
// candidate. Candidates that are unknown or disabled are reported as
// skipped rather than silently dropped, as are enabled channels left out
// of the final set.
func (r *Router) Resolve(requested []model.Channel, event string) Resolution {
	candidates := requested
	if len(candidates) == 0 {
		candidates = r.eventCandidates(event)
	}

	var res Resolution
	targeted := make(map[model.Channel]bool, len(candidates))
	for _, ch := range candidates {
		if targeted[ch] {
			continue
		}
		targeted[ch] = true

		if !known(ch) {
			res.Skipped = append(res.Skipped, model.ChannelResult{
				Channel: ch, Status: model.StatusSkipped, Reason: model.ReasonUnknown,
			})
			continue
		}
		if _, ok := r.registry[ch]; !ok {
			res.Skipped = append(res.Skipped, model.ChannelResult{
				Channel: ch, Status: model.StatusSkipped, Reason: model.ReasonDisabled,
			})
			continue
		}
		res.Targets = append(res.Targets, ch)
	}

	// Enabled channels outside the resolved set are accounted for too.
	for _, ch := range r.registry.Channels() {
		if !targeted[ch] {
			res.Skipped = append(res.Skipped, model.ChannelResult{
				Channel: ch, Status: model.StatusSkipped, Reason: model.ReasonNotTargeted,
			})
		}
	}

	return res
}

// eventCandidates looks up the routing rule for an event type. Unmatched
// events default to all enabled channels.
func (r *Router) eventCandidates(event string) []model.Channel {
	if channels, ok := r.rules[event]; ok {
		return channels
	}
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(event, prefix) {
			return r.rules[prefix]
		}
	}
	return r.registry.Channels()
}

func known(ch model.Channel) bool {
	for _, k := range model.KnownChannels {
		if ch == k {
			return true
		}
	}
	return false
}
