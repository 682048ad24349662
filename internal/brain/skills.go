package brain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Replies may ask for one of the brain's own APIs with a block like
//
//	[TOOL_CALL] tool => "get_mood" args => { n => 3 } [/TOOL_CALL]
//
// in which case the skill result replaces the reply.
var (
	toolCallBlock = regexp.MustCompile(`(?is)\[TOOL_CALL\](.*?)\[/TOOL_CALL\]`)
	toolNameExpr  = regexp.MustCompile(`(?i)tool\s*=>\s*["']([^"']+)["']`)
	argsBlockExpr = regexp.MustCompile(`(?is)args\s*=>\s*\{([^}]*)\}`)
)

// parseToolCall extracts the tool name and arguments from a reply, if any.
func parseToolCall(reply string) (name string, args map[string]string, ok bool) {
	block := toolCallBlock.FindStringSubmatch(reply)
	if block == nil {
		return "", nil, false
	}
	nameMatch := toolNameExpr.FindStringSubmatch(block[1])
	if nameMatch == nil {
		return "", nil, false
	}
	args = map[string]string{}
	if argsMatch := argsBlockExpr.FindStringSubmatch(block[1]); argsMatch != nil {
		for _, part := range strings.Split(argsMatch[1], ",") {
			k, v, found := strings.Cut(part, "=>")
			if !found {
				continue
			}
			key := strings.Trim(strings.TrimSpace(k), `"'`)
			val := strings.Trim(strings.TrimSpace(v), `"'`)
			if key != "" {
				args[key] = val
			}
		}
	}
	return strings.TrimSpace(nameMatch[1]), args, true
}

// handleToolCalls runs the requested skill when the reply contains a tool
// call, otherwise returns the reply unchanged.
func (a *Agent) handleToolCalls(reply string) string {
	name, args, ok := parseToolCall(reply)
	if !ok {
		return reply
	}
	return a.runSkill(name, args)
}

// runSkill executes a self-internal skill by name. Unknown names are
// reported in the result, never raised.
func (a *Agent) runSkill(name string, args map[string]string) string {
	switch name {
	case "get_mood":
		mood := a.emotional.Mood()
		if len(mood) == 0 {
			return "Mood: (no state)"
		}
		keys := make([]string, 0, len(mood))
		for k := range mood {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s:%.2f", k, mood[k]))
		}
		return "Mood: " + strings.Join(parts, ", ")
	case "get_memory":
		return fmt.Sprintf("Memory: short_term=%d items (capacity %d).", a.memory.Len(), a.memory.Capacity())
	case "spark_inspiration":
		if spark := a.inspiration.Spark(); spark != "" {
			return "Inspiration: " + spark
		}
		return "Inspiration: (no spark this time)"
	case "get_pulse":
		return fmt.Sprintf("Pulse: %.2f (consciousness/blood-flow).", a.Pulse())
	case "get_consciousness_state":
		act := a.Activities()
		return fmt.Sprintf(
			"Consciousness: emotional=%.2f logical=%.2f memory=%.2f inspiration=%.2f consciousness=%.2f heartbeat=%.2f",
			act["emotional"], act["logical"], act["memory"],
			act["inspiration"], act["consciousness"], act["heartbeat"],
		)
	default:
		return "Unknown skill: " + name
	}
}

// skillDescriptions is included in the system prompt so the model knows what
// it may call.
const skillDescriptions = `get_mood: current emotional state. ` +
	`get_memory: short-term memory summary. ` +
	`spark_inspiration: draw a creativity spark. ` +
	`get_pulse: current pulse. ` +
	`get_consciousness_state: all stream activities. ` +
	`Call one with [TOOL_CALL] tool => "name" args => { } [/TOOL_CALL].`
