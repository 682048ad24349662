package brain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cerebraai/cerebra/internal/llm"
)

type stubCompleter struct {
	reply  string
	tokens int
	err    error
	seen   []llm.Message
}

func (s *stubCompleter) Complete(_ context.Context, history []llm.Message) (string, int, error) {
	s.seen = history
	return s.reply, s.tokens, s.err
}

func (s *stubCompleter) Model() string { return "stub-model" }

func TestActivitiesStayInUnitRange(t *testing.T) {
	t.Parallel()

	a := New(Options{Name: "test"})
	for i := 0; i < 50; i++ {
		a.TickIdle()
		for name, v := range a.Activities() {
			require.GreaterOrEqual(t, v, 0.0, name)
			require.LessOrEqual(t, v, 1.0, name)
		}
	}
}

func TestActivitiesContainAllStreams(t *testing.T) {
	t.Parallel()

	a := New(Options{Name: "test"})
	act := a.Activities()
	for _, stream := range []string{"emotional", "logical", "memory", "inspiration", "consciousness", "heartbeat"} {
		require.Contains(t, act, stream)
	}
}

func TestReplyPrependsSystemPromptAndForwardsHistory(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "hi there", tokens: 12}
	a := New(Options{Name: "Mother", Client: stub})

	got := a.Reply([]llm.Message{{Role: "user", Content: "hello"}})

	require.Equal(t, "hi there", got)
	require.Len(t, stub.seen, 2)
	require.Equal(t, "system", stub.seen[0].Role)
	require.Contains(t, stub.seen[0].Content, "Cerebra")
	require.Contains(t, stub.seen[0].Content, "Current state (live)")
	require.Equal(t, llm.Message{Role: "user", Content: "hello"}, stub.seen[1])

	m := a.Metrics()
	require.Equal(t, 12, m.TokensUsed)
	require.Equal(t, 2, m.ShortTerm, "user turn and reply both remembered")
}

func TestReplyEmbedsClientErrors(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{err: errors.New("connection refused")}
	a := New(Options{Name: "m", Client: stub})

	got := a.Reply([]llm.Message{{Role: "user", Content: "hello"}})
	require.Contains(t, got, "LLM request failed")
	require.Contains(t, got, "connection refused")
}

func TestReplyWithoutClient(t *testing.T) {
	t.Parallel()

	a := New(Options{Name: "m"})
	got := a.Reply([]llm.Message{{Role: "user", Content: "hello"}})
	require.Contains(t, got, "No language model configured")
}

func TestReplyRunsRequestedSkill(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: `Sure. [TOOL_CALL] tool => "get_mood" args => { } [/TOOL_CALL]`}
	a := New(Options{Name: "m", Client: stub})

	got := a.Reply([]llm.Message{{Role: "user", Content: "how do you feel?"}})
	require.True(t, len(got) > 0)
	require.Contains(t, got, "Mood: ")
	require.Contains(t, got, "curious")
}

func TestReplyBumpsPulse(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "ok"}
	a := New(Options{Name: "m", Client: stub})
	before := a.Pulse()

	a.Reply([]llm.Message{{Role: "user", Content: "hi"}})
	require.GreaterOrEqual(t, a.Pulse(), before)
}

func TestMemoryRingEvictsOldest(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	for _, s := range []string{"a", "b", "c", "d"} {
		m.Add("user", s)
	}
	turns := m.Recent()
	require.Len(t, turns, 3)
	require.Equal(t, "b", turns[0].Content)
	require.Equal(t, "d", turns[2].Content)
}

func TestEmotionalDriftIsClampedAndTargeted(t *testing.T) {
	t.Parallel()

	e := NewEmotionalSelf(map[string]float64{"curious": 0.99, "creative": 0.1})
	for i := 0; i < 10; i++ {
		e.UpdateFromInteraction("why?", "short")
	}
	mood := e.Mood()
	require.Equal(t, 1.0, mood["curious"])
	require.Equal(t, 0.1, mood["creative"])

	name, v := e.Dominant()
	require.Equal(t, "curious", name)
	require.Equal(t, 1.0, v)
}

func TestParseToolCall(t *testing.T) {
	t.Parallel()

	name, args, ok := parseToolCall(`before [TOOL_CALL] tool => "spark_inspiration" args => { n => 3, q => "x" } [/TOOL_CALL] after`)
	require.True(t, ok)
	require.Equal(t, "spark_inspiration", name)
	require.Equal(t, map[string]string{"n": "3", "q": "x"}, args)

	_, _, ok = parseToolCall("plain reply with no call")
	require.False(t, ok)

	_, _, ok = parseToolCall("[TOOL_CALL] gibberish [/TOOL_CALL]")
	require.False(t, ok)
}

func TestRunSkillUnknownName(t *testing.T) {
	t.Parallel()

	a := New(Options{Name: "m"})
	require.Equal(t, "Unknown skill: warp_drive", a.runSkill("warp_drive", nil))
}

func TestInspirationSparkIsBoundedAndSticky(t *testing.T) {
	t.Parallel()

	e := newInspirationEngine(1)
	fired := false
	for i := 0; i < 100; i++ {
		if s := e.Spark(); s != "" {
			fired = true
			require.Contains(t, sparkTemplates, s)
		}
	}
	require.True(t, fired, "a spark fires well within 100 draws at ~30% each")
	require.True(t, e.Active())
}
