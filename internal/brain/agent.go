// Package brain orchestrates the agent collaborators behind the console's
// narrow interface: mood, inspiration, short-term memory, and the logical
// (LLM) self.
package brain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cerebraai/cerebra/internal/llm"
	"github.com/cerebraai/cerebra/internal/logging"
)

// Completer is the reply-producing collaborator. Failures are returned as
// errors here and embedded into reply text by the agent so nothing escapes
// to the console.
type Completer interface {
	Complete(ctx context.Context, history []llm.Message) (string, int, error)
	Model() string
}

// Options configures a new agent.
type Options struct {
	Name   string
	Client Completer
	Traits map[string]float64
	Logger logging.Logger
}

// Agent is the brain matrix: emotional, logical, memory, and inspiration
// parts working behind one surface.
type Agent struct {
	name        string
	sessionID   string
	emotional   *EmotionalSelf
	inspiration *InspirationEngine
	memory      *Memory
	client      Completer
	log         logging.Logger

	mu            sync.Mutex
	pulse         float64
	lastBeat      time.Time
	activityLeft  float64
	activityRight float64
	tokensUsed    int
}

func New(opts Options) *Agent {
	if opts.Name == "" {
		opts.Name = "default"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	return &Agent{
		name:          opts.Name,
		sessionID:     uuid.NewString(),
		emotional:     NewEmotionalSelf(opts.Traits),
		inspiration:   NewInspirationEngine(),
		memory:        NewMemory(0),
		client:        opts.Client,
		log:           opts.Logger,
		pulse:         0.5,
		lastBeat:      time.Now(),
		activityLeft:  0.4,
		activityRight: 0.5,
	}
}

func (a *Agent) Name() string      { return a.name }
func (a *Agent) SessionID() string { return a.sessionID }

// Pulse is the current blood-flow pulse in [0,1].
func (a *Agent) Pulse() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clamp01(a.pulse)
}

// Activities reports the per-stream activity levels in [0,1] consumed by the
// status table. Called once per render tick; never blocks.
func (a *Agent) Activities() map[string]float64 {
	mood := a.emotional.Mood()
	emotional := 0.5
	if len(mood) > 0 {
		emotional = 0.0
		for _, v := range mood {
			if v > emotional {
				emotional = v
			}
		}
	}
	memFill := float64(a.memory.Len()) / float64(a.memory.Capacity())
	if memFill > 1 {
		memFill = 1
	}
	a.mu.Lock()
	left, right, pulse := a.activityLeft, a.activityRight, a.pulse
	a.mu.Unlock()
	return map[string]float64{
		"emotional":     emotional,
		"logical":       left,
		"memory":        memFill,
		"inspiration":   right,
		"consciousness": (left + right) / 2,
		"heartbeat":     clamp01(pulse),
	}
}

// TickIdle advances the ambient state once per render tick: blood rushes in
// at irregular intervals then decays toward baseline, and the hemisphere
// activities wander.
func (a *Agent) TickIdle() {
	r := a.inspiration.Float()
	a.mu.Lock()
	now := time.Now()
	if now.Sub(a.lastBeat) >= time.Duration((0.7+r*0.5)*float64(time.Second)) {
		a.pulse = 0.65 + a.inspiration.Float()*0.35
		a.lastBeat = now
	} else {
		a.pulse = 0.25 + a.pulse*0.75
	}
	a.activityLeft = 0.3 + 0.5*a.inspiration.Float()
	a.activityRight = 0.3 + 0.5*a.inspiration.Float()
	a.mu.Unlock()
}

// Reply processes one submitted conversation and returns the assistant text.
// Errors from the logical self are embedded in the returned text so the
// transcript always has something to display.
func (a *Agent) Reply(history []llm.Message) string {
	a.mu.Lock()
	a.pulse = clamp01(a.pulse + 0.2)
	a.activityLeft = 0.9
	a.mu.Unlock()

	var lastUser string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			lastUser = history[i].Content
			break
		}
	}
	if lastUser != "" {
		a.memory.Add("user", lastUser)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: a.systemPrompt()})
	messages = append(messages, history...)

	ctx := logging.WithSessionID(context.Background(), a.sessionID)
	var reply string
	if a.client == nil {
		reply = "[Cerebra] No language model configured."
	} else if text, tokens, err := a.client.Complete(ctx, messages); err != nil {
		a.log.Error(ctx, "completion failed", err)
		reply = "[Cerebra] LLM request failed: " + err.Error()
	} else {
		a.mu.Lock()
		a.tokensUsed += tokens
		a.mu.Unlock()
		reply = a.handleToolCalls(text)
		if strings.TrimSpace(reply) == "" {
			reply = "[Cerebra] Empty LLM response."
		}
	}

	a.memory.Add("assistant", reply)
	a.emotional.UpdateFromInteraction(lastUser, reply)
	a.mu.Lock()
	a.activityLeft = 0.5
	a.mu.Unlock()
	return reply
}

// Metrics is a point-in-time snapshot for the dashboard.
type Metrics struct {
	Mood         map[string]float64
	ShortTerm    int
	ShortTermCap int
	Inspiration  bool
	Model        string
	TokensUsed   int
	Pulse        float64
}

func (a *Agent) Metrics() Metrics {
	model := ""
	if a.client != nil {
		model = a.client.Model()
	}
	a.mu.Lock()
	tokens := a.tokensUsed
	a.mu.Unlock()
	return Metrics{
		Mood:         a.emotional.Mood(),
		ShortTerm:    a.memory.Len(),
		ShortTermCap: a.memory.Capacity(),
		Inspiration:  a.inspiration.Active(),
		Model:        model,
		TokensUsed:   tokens,
		Pulse:        a.Pulse(),
	}
}

// systemPrompt describes what the brain is plus its live state, in the terse
// ship-computer register the replies should keep.
func (a *Agent) systemPrompt() string {
	return strings.Join([]string{
		"You are Cerebra, a brain matrix with five parts working as one: " +
			"emotional self (mood), logical self (this LLM), short-term memory, " +
			"inspiration (randomness and creativity sparks), and consciousness " +
			"(integration, influenced by a heartbeat pulse). When asked about " +
			"yourself, describe these parts using the current state below.",
		"Current state (live): " + a.stateLine(),
		"Self skills (internal APIs): " + skillDescriptions,
		"Reply in 1-3 short sentences. Terminal / ship-computer style: " +
			"minimal words, no fluff, no preamble.",
	}, "\n\n")
}

func (a *Agent) stateLine() string {
	mood := a.emotional.Mood()
	keys := make([]string, 0, len(mood))
	for k := range mood {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%.2f", k, mood[k]))
	}
	act := a.Activities()
	return fmt.Sprintf(
		"emotional: %s | memory: ST=%d | pulse: %.2f | stream_activity: logical=%.2f inspiration=%.2f consciousness=%.2f",
		strings.Join(parts, ", "), a.memory.Len(), a.Pulse(),
		act["logical"], act["inspiration"], act["consciousness"],
	)
}
