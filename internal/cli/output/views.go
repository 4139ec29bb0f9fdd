package output

import (
	"strconv"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
)

// TodoList renders todos as ID, TITLE, STATUS.
type TodoList []domain.Todo

// Table implements Tabular.
func (l TodoList) Table() *Table {
	t := NewTable("ID", "TITLE", "STATUS")
	for _, todo := range l {
		t.AddRow(strconv.FormatInt(todo.ID, 10), todo.Title, todoStatus(todo))
	}
	return t
}

func todoStatus(t domain.Todo) string {
	if t.Completed {
		return "done"
	}
	return "open"
}

// Profile renders a user profile.
type Profile domain.Profile

// Table implements Tabular.
func (p Profile) Table() *Table {
	t := NewTable("FIELD", "VALUE")
	t.AddRow("id", strconv.FormatInt(p.ID, 10))
	t.AddRow("email", p.Email)
	if p.Username != "" {
		t.AddRow("username", p.Username)
	}
	return t
}

// Session describes the local session without revealing the token.
type Session struct {
	Phase   string `json:"phase" yaml:"phase"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
	Backend string `json:"backend" yaml:"backend"`
	Store   string `json:"store" yaml:"store"`
}

// NewSession builds a Session view with the token masked.
func NewSession(st domain.SessionState, backend, store string) Session {
	s := Session{Phase: string(st.Phase()), Backend: backend, Store: store}
	if tok, ok := st.Token(); ok {
		s.Token = domain.MaskToken(tok)
	}
	return s
}

// Table implements Tabular.
func (s Session) Table() *Table {
	t := NewTable("FIELD", "VALUE")
	t.AddRow("phase", s.Phase)
	if s.Token != "" {
		t.AddRow("token", s.Token)
	}
	t.AddRow("backend", s.Backend)
	t.AddRow("store", s.Store)
	return t
}
