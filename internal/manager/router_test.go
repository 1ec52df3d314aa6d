package manager

import (
	"reflect"
	"testing"

	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/ilindan-dev/alertgate/internal/senders"
)

func testRegistry(channels ...model.Channel) senders.Registry {
	reg := make(senders.Registry)
	for _, ch := range channels {
		reg[ch] = &fakeSender{}
	}
	return reg
}

func TestRouterEventRuleExactMatch(t *testing.T) {
	reg := testRegistry(model.ChannelTeams, model.ChannelFeishu, model.ChannelWechat)
	r := NewRouter(reg, map[string][]string{
		"daily_report": {"feishu"},
	})

	res := r.Resolve(nil, "daily_report")
	if !reflect.DeepEqual(res.Targets, []model.Channel{model.ChannelFeishu}) {
		t.Fatalf("targets = %v, want [feishu]", res.Targets)
	}

	// The two enabled channels outside the rule are reported, not dropped.
	var notTargeted int
	for _, cr := range res.Skipped {
		if cr.Reason == model.ReasonNotTargeted {
			notTargeted++
		}
	}
	if notTargeted != 2 {
		t.Fatalf("not-targeted count = %d, want 2", notTargeted)
	}
}

func TestRouterEventRulePrefixMatch(t *testing.T) {
	reg := testRegistry(model.ChannelTeams, model.ChannelFeishu)
	r := NewRouter(reg, map[string][]string{
		"security":       {"teams"},
		"security_alert": {"teams", "feishu"},
	})

	// Longest matching prefix wins.
	res := r.Resolve(nil, "security_alert_db")
	want := []model.Channel{model.ChannelTeams, model.ChannelFeishu}
	if !reflect.DeepEqual(res.Targets, want) {
		t.Fatalf("targets = %v, want %v", res.Targets, want)
	}

	res = r.Resolve(nil, "security_scan")
	if !reflect.DeepEqual(res.Targets, []model.Channel{model.ChannelTeams}) {
		t.Fatalf("targets = %v, want [teams]", res.Targets)
	}
}

func TestRouterUnmatchedEventDefaultsToAllEnabled(t *testing.T) {
	reg := testRegistry(model.ChannelTeams, model.ChannelWechat)
	r := NewRouter(reg, map[string][]string{"daily_report": {"feishu"}})

	res := r.Resolve(nil, "something_else")
	want := []model.Channel{model.ChannelTeams, model.ChannelWechat}
	if !reflect.DeepEqual(res.Targets, want) {
		t.Fatalf("targets = %v, want %v", res.Targets, want)
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("skipped = %v, want none", res.Skipped)
	}
}

func TestRouterExplicitOverrideBeatsEventRule(t *testing.T) {
	reg := testRegistry(model.ChannelTeams, model.ChannelFeishu)
	r := NewRouter(reg, map[string][]string{"build_failure": {"feishu"}})

	res := r.Resolve([]model.Channel{model.ChannelTeams}, "build_failure")
	if !reflect.DeepEqual(res.Targets, []model.Channel{model.ChannelTeams}) {
		t.Fatalf("targets = %v, want [teams]", res.Targets)
	}
}

func TestRouterUnknownChannelSkipped(t *testing.T) {
	reg := testRegistry(model.ChannelTeams)
	r := NewRouter(reg, nil)

	res := r.Resolve([]model.Channel{model.ChannelTeams, "pager"}, "anything")
	if !reflect.DeepEqual(res.Targets, []model.Channel{model.ChannelTeams}) {
		t.Fatalf("targets = %v, want [teams]", res.Targets)
	}

	var found bool
	for _, cr := range res.Skipped {
		if cr.Channel == "pager" && cr.Reason == model.ReasonUnknown {
			found = true
		}
	}
	if !found {
		t.Fatalf("unknown channel not reported in %v", res.Skipped)
	}
}

func TestRouterDeduplicatesRequestedChannels(t *testing.T) {
	reg := testRegistry(model.ChannelTeams)
	r := NewRouter(reg, nil)

	res := r.Resolve([]model.Channel{model.ChannelTeams, model.ChannelTeams}, "anything")
	if len(res.Targets) != 1 {
		t.Fatalf("targets = %v, want a single teams entry", res.Targets)
	}
}
