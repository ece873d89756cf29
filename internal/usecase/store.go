package usecase

import (
	"sync"

	"Hikari/internal/domain/models"
)

// Resource names a selection-scoped collection.
type Resource string

const (
	ResourceNews   Resource = "news"
	ResourceAlerts Resource = "alerts"
)

// Token identifies one dependent fetch. A result is applied only while the
// store still has the same selection at the same selection version, and only
// if no newer fetch of the same resource has been applied already.
type Token struct {
	HoldingID int64
	Version   uint64
	Seq       uint64
}

// Store is the single owner of the holdings collection, the selection and the
// selection-scoped news and alerts. All reads return copies.
type Store struct {
	mu sync.RWMutex

	holdings   []models.Holding
	selected   *int64
	selVersion uint64
	seq        uint64
	applied    map[Resource]uint64
	stale      map[Resource]bool

	news   []models.NewsArticle
	alerts []models.Alert

	loading bool
	errText string
	status  models.Status

	version uint64
	subs    map[int]chan uint64
	nextSub int
}

// NewStore returns an empty store with a loading status.
func NewStore() *Store {
	return &Store{
		holdings: []models.Holding{},
		news:     []models.NewsArticle{},
		alerts:   []models.Alert{},
		applied:  make(map[Resource]uint64),
		stale:    make(map[Resource]bool),
		status:   models.Status{Level: models.StatusLoading, Message: models.MessageLoading},
		subs:     make(map[int]chan uint64),
	}
}

// ReplaceHoldings swaps the whole collection. The selection is left alone
// even if it no longer matches an item.
func (s *Store) ReplaceHoldings(items []models.Holding) {
	cp := cloneHoldings(items)

	s.mu.Lock()
	s.holdings = cp
	s.mutated()
	s.mu.Unlock()
}

// ReplaceHolding swaps one item by id. It reports whether the id was present.
func (s *Store) ReplaceHolding(h models.Holding) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.holdings {
		if s.holdings[i].ID == h.ID {
			next := make([]models.Holding, len(s.holdings))
			copy(next, s.holdings)
			next[i] = h.Clone()
			s.holdings = next
			s.mutated()
			return true
		}
	}
	return false
}

// RemoveHolding deletes by id. If the id was selected the selection is
// cleared along with news and alerts.
func (s *Store) RemoveHolding(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	next := make([]models.Holding, 0, len(s.holdings))
	for _, h := range s.holdings {
		if h.ID == id {
			found = true
			continue
		}
		next = append(next, h)
	}
	s.holdings = next

	if s.selected != nil && *s.selected == id {
		s.setSelectionLocked(nil)
	}
	s.mutated()
	return found
}

// SetSelection sets or clears the selection. A real change bumps the
// selection version, empties news and alerts and marks them stale. It returns
// the selection version and whether anything changed.
func (s *Store) SetSelection(id *int64) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sameID(s.selected, id) {
		return s.selVersion, false
	}
	s.setSelectionLocked(id)
	s.mutated()
	return s.selVersion, true
}

func (s *Store) setSelectionLocked(id *int64) {
	if id == nil {
		s.selected = nil
	} else {
		v := *id
		s.selected = &v
	}
	s.selVersion++
	s.news = []models.NewsArticle{}
	s.alerts = []models.Alert{}
	s.stale[ResourceNews] = id != nil
	s.stale[ResourceAlerts] = id != nil
}

// Selection returns the selected id (nil when unset) and the selection version.
func (s *Store) Selection() (*int64, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return nil, s.selVersion
	}
	v := *s.selected
	return &v, s.selVersion
}

// IssueToken stamps a dependent fetch for id with the current selection
// version and a fresh sequence number.
func (s *Store) IssueToken(id int64) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	return Token{HoldingID: id, Version: s.selVersion, Seq: s.seq}
}

// ApplyNews installs items if tok is still current. A nil slice clears the
// list. It reports whether the result was applied.
func (s *Store) ApplyNews(tok Token, items []models.NewsArticle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(ResourceNews, tok) {
		return false
	}
	cp := make([]models.NewsArticle, len(items))
	copy(cp, items)
	s.news = cp
	s.mutated()
	return true
}

// ApplyAlerts installs items if tok is still current. A nil slice clears the
// list. It reports whether the result was applied.
func (s *Store) ApplyAlerts(tok Token, items []models.Alert) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(ResourceAlerts, tok) {
		return false
	}
	cp := make([]models.Alert, len(items))
	copy(cp, items)
	s.alerts = cp
	s.mutated()
	return true
}

func (s *Store) acceptLocked(r Resource, tok Token) bool {
	if s.selected == nil || *s.selected != tok.HoldingID || s.selVersion != tok.Version {
		return false
	}
	if tok.Seq < s.applied[r] {
		return false
	}
	s.applied[r] = tok.Seq
	s.stale[r] = false
	return true
}

// Stale reports whether r has not been refreshed since the selection changed.
func (s *Store) Stale(r Resource) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale[r]
}

// Holdings returns a copy of the collection.
func (s *Store) Holdings() []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneHoldings(s.holdings)
}

// BeginRefresh flags a refresh in flight and clears the previous error.
func (s *Store) BeginRefresh() {
	s.mu.Lock()
	s.loading = true
	s.errText = ""
	s.mutated()
	s.mu.Unlock()
}

// EndRefresh clears the loading flag and records errText (empty on success)
// with the accompanying status.
func (s *Store) EndRefresh(errText string, st models.Status) {
	s.mu.Lock()
	s.loading = false
	s.errText = errText
	s.status = st
	s.mutated()
	s.mu.Unlock()
}

// SetStatus replaces the status indicator.
func (s *Store) SetStatus(st models.Status) {
	s.mu.Lock()
	s.status = st
	s.mutated()
	s.mu.Unlock()
}

// State returns a consistent copy of everything the holdings surface shows.
func (s *Store) State() models.HoldingsState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := models.HoldingsState{
		Holdings: cloneHoldings(s.holdings),
		News:     make([]models.NewsArticle, len(s.news)),
		Alerts:   make([]models.Alert, len(s.alerts)),
		Loading:  s.loading,
		Error:    s.errText,
		Status:   s.status,
		Version:  s.version,
	}
	copy(st.News, s.news)
	copy(st.Alerts, s.alerts)

	if s.selected != nil {
		id := *s.selected
		st.SelectedID = &id
		for i := range st.Holdings {
			if st.Holdings[i].ID == id {
				h := st.Holdings[i].Clone()
				st.Selected = &h
				break
			}
		}
	}
	return st
}

// Subscribe returns a channel that receives the state version after every
// mutation. Sends never block; a full buffer drops the notification.
func (s *Store) Subscribe(buf int) (int, <-chan uint64) {
	if buf < 1 {
		buf = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan uint64, buf)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe closes and removes a subscription.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Store) mutated() {
	s.version++
	for _, ch := range s.subs {
		select {
		case ch <- s.version:
		default:
		}
	}
}

func cloneHoldings(items []models.Holding) []models.Holding {
	out := make([]models.Holding, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
