package selection

import "sync"

// Panel identifies which of the picker's two views is showing.
type Panel string

const (
	PanelTokenList   Panel = "tokenList"
	PanelManageLists Panel = "manageLists"
)

// PanelState is the picker's view toggle. TokenList is the initial
// panel; ManageLists is reachable only from TokenList and returns only
// to TokenList. There is no terminal state; closing the picker is the
// caller's concern.
type PanelState struct {
	mu  sync.Mutex
	cur Panel
}

func NewPanelState() *PanelState {
	return &PanelState{cur: PanelTokenList}
}

func (s *PanelState) Current() Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Toggle flips between the two panels and returns the new one.
func (s *PanelState) Toggle() Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == PanelTokenList {
		s.cur = PanelManageLists
	} else {
		s.cur = PanelTokenList
	}
	return s.cur
}

// Reset returns the picker to the initial panel.
func (s *PanelState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = PanelTokenList
}
