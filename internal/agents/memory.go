// Agent journal: the append-only record of everything that happened to an
// agent, rendered into prose on demand.
package agents

// Record is one entry in an agent's log.
type Record struct {
	Tick  uint64
	Event Event
}

// LogEntry is a rendered log line, ready for printing or archiving.
type LogEntry struct {
	Tick    uint64  `json:"tick"`
	AgentID AgentID `json:"agent_id"`
	Agent   string  `json:"agent"`
	Text    string  `json:"text"`
}

// Records returns the raw log of an agent, or nil for an unknown id.
func (w *World) Records(id AgentID) []Record {
	a := w.Agent(id)
	if a == nil {
		return nil
	}
	return a.Log
}

// Entries renders an agent's whole log in order.
func (w *World) Entries(id AgentID) []LogEntry {
	a := w.Agent(id)
	if a == nil {
		return nil
	}
	out := make([]LogEntry, len(a.Log))
	for i, r := range a.Log {
		out[i] = LogEntry{Tick: r.Tick, AgentID: a.ID, Agent: a.Name, Text: r.Event.Describe(w)}
	}
	return out
}

// AgentEventLog returns an agent's story as plain lines.
func (w *World) AgentEventLog(id AgentID) []string {
	entries := w.Entries(id)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Text
	}
	return lines
}

// RecentEntries returns the last count entries of an agent's log, newest
// first.
func (w *World) RecentEntries(id AgentID, count int) []LogEntry {
	entries := w.Entries(id)
	count = max(0, min(count, len(entries)))
	out := make([]LogEntry, 0, count)
	for i := len(entries) - 1; i >= len(entries)-count; i-- {
		out = append(out, entries[i])
	}
	return out
}

// EntriesSince renders every agent's log lines stamped after tick, grouped
// by agent in id order.
func (w *World) EntriesSince(tick uint64) []LogEntry {
	var out []LogEntry
	for _, a := range w.Agents {
		for _, r := range a.Log {
			if r.Tick > tick {
				out = append(out, LogEntry{Tick: r.Tick, AgentID: a.ID, Agent: a.Name, Text: r.Event.Describe(w)})
			}
		}
	}
	return out
}
