package conversation

import (
	"context"
	"fmt"

	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/tokenizer"
)

// DefaultMaxTokens is the context size of the Gemini 1.5 family.
const DefaultMaxTokens = 1_048_576

// Manager keeps a session's conversation inside the model's context budget.
type Manager struct {
	counter   tokenizer.Counter
	maxTokens int
}

func NewManager(counter tokenizer.Counter, maxTokens int) *Manager {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Manager{counter: counter, maxTokens: maxTokens}
}

func (m *Manager) MaxTokens() int { return m.maxTokens }

// Exchange is a prepared but uncommitted turn. Nothing in it is visible to the
// session until Complete succeeds and the caller stores Result.Window.
type Exchange struct {
	Query string
	// Messages is the conversation the model sees before the query, oldest first.
	Messages []llm.Message
	// History is the client history after any eviction.
	History   History
	Truncated bool
	// UsedTokens includes the query and any re-counted history.
	UsedTokens int

	historyTokens int
	queryTokens   int
	window        Window
}

// Result is the outcome of a completed exchange.
type Result struct {
	Answer     string
	UsedTokens int
	Truncated  bool
	// UpdatedHistory is non-nil only when older exchanges were evicted.
	UpdatedHistory *History
	Window         Window
	Turn           Turn
}

// Prepare counts the query, evicts the oldest turns when the budget would
// overflow, and otherwise charges the client history to the budget.
// window and history are not modified.
func (m *Manager) Prepare(ctx context.Context, window Window, query string, history History, usedTokens int) (*Exchange, error) {
	if err := history.Validate(); err != nil {
		return nil, err
	}
	if history.Len() != window.Len() {
		return nil, fmt.Errorf("%w: %d exchanges in history, %d turns recorded",
			ErrHistoryWindowMismatch, history.Len(), window.Len())
	}
	if usedTokens < 0 {
		return nil, ErrNegativeUsage
	}

	queryTokens, err := m.counter.CountTokens(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count query tokens: %w", err)
	}

	ex := &Exchange{
		Query:       query,
		Messages:    toMessages(history),
		History:     history.clone(),
		queryTokens: queryTokens,
		window:      window,
	}
	used := usedTokens

	if queryTokens+used >= m.maxTokens {
		ex.Truncated = true
		for used+queryTokens >= m.maxTokens {
			turn, rest, ok := ex.window.PopFront()
			if !ok {
				return nil, &ErrQueryExceedsCapacity{
					QueryTokens: queryTokens,
					UsedTokens:  used,
					MaxTokens:   m.maxTokens,
				}
			}
			ex.window = rest
			used -= turn.Total()
			if ex.History.Len() > 0 {
				ex.History = ex.History.DropFront()
			}
			if len(ex.Messages) >= 2 {
				ex.Messages = ex.Messages[2:]
			}
		}
	} else if len(history.User) > 0 && len(history.Bot) > 0 {
		for _, pair := range history.Pairs() {
			userTokens, err := m.counter.CountTokens(ctx, pair.User)
			if err != nil {
				return nil, fmt.Errorf("count history tokens: %w", err)
			}
			botTokens, err := m.counter.CountTokens(ctx, pair.Bot)
			if err != nil {
				return nil, fmt.Errorf("count history tokens: %w", err)
			}
			ex.historyTokens += userTokens + botTokens
		}
		used += ex.historyTokens
	}

	ex.UsedTokens = used + queryTokens
	return ex, nil
}

// Complete charges the answer to the budget and appends the new turn to the
// exchange's window. The caller commits Result.Window to the session.
func (m *Manager) Complete(ctx context.Context, ex *Exchange, answer string) (*Result, error) {
	answerTokens, err := m.counter.CountTokens(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("count answer tokens: %w", err)
	}

	turn := Turn{
		HistoryTokens: ex.historyTokens,
		QueryTokens:   ex.queryTokens,
		AnswerTokens:  answerTokens,
	}
	res := &Result{
		Answer:     answer,
		UsedTokens: ex.UsedTokens + answerTokens,
		Truncated:  ex.Truncated,
		Window:     ex.window.Append(turn),
		Turn:       turn,
	}
	if ex.Truncated {
		h := ex.History.clone()
		res.UpdatedHistory = &h
	}
	return res, nil
}

func toMessages(h History) []llm.Message {
	pairs := h.Pairs()
	msgs := make([]llm.Message, 0, 2*len(pairs))
	for _, p := range pairs {
		msgs = append(msgs, llm.UserMessage(p.User), llm.AssistantMessage(p.Bot))
	}
	return msgs
}
