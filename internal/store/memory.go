package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"nexbuzzer-backend/internal/models"
)

// Memory is an in-process Store used by tests and local development.
// All multi-write operations hold the mutex for their full duration, so
// settlement and deposit completion are atomic here too.
type Memory struct {
	mu sync.Mutex

	nextID     int
	users      map[int]*models.User
	profiles   map[int]*models.ModelProfile // keyed by user id
	wallets    map[int]*models.Wallet       // keyed by user id
	txns       []*models.Transaction
	calls      map[int]*models.CallSession
	scheduled  map[int]*models.ScheduledCall
	messages   map[int]*models.Message
	favorites  map[[2]int]*models.Favorite // (userID, modelID)
}

func NewMemory() *Memory {
	return &Memory{
		nextID:    1,
		users:     make(map[int]*models.User),
		profiles:  make(map[int]*models.ModelProfile),
		wallets:   make(map[int]*models.Wallet),
		calls:     make(map[int]*models.CallSession),
		scheduled: make(map[int]*models.ScheduledCall),
		messages:  make(map[int]*models.Message),
		favorites: make(map[[2]int]*models.Favorite),
	}
}

func (m *Memory) id() int {
	id := m.nextID
	m.nextID++
	return id
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrAlreadyExists
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) GetUser(_ context.Context, id int) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return *u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return *u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) UpdateUser(_ context.Context, id int, upd UserUpdate) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Gender != nil {
		u.Gender = *upd.Gender
	}
	if upd.Age != nil {
		u.Age = *upd.Age
	}
	if upd.City != nil {
		u.City = *upd.City
	}
	if upd.Country != nil {
		u.Country = *upd.Country
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
	}
	return *u, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []models.User{}
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) CreateModelProfile(_ context.Context, p *models.ModelProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.UserID]; ok {
		return ErrAlreadyExists
	}
	p.ID = m.id()
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *Memory) GetModelProfile(_ context.Context, userID int) (models.ModelProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return models.ModelProfile{}, ErrNotFound
	}
	return *p, nil
}

func (m *Memory) UpdateModelProfile(_ context.Context, userID int, upd ProfileUpdate) (models.ModelProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return models.ModelProfile{}, ErrNotFound
	}
	applyProfileUpdate(p, upd)
	return *p, nil
}

func (m *Memory) ListModels(_ context.Context, f ModelFilter) ([]ModelListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listings := []ModelListing{}
	for userID, p := range m.profiles {
		if f.Available && !p.IsAvailable {
			continue
		}
		if f.VoiceCalls && !p.OfferVoiceCalls {
			continue
		}
		if f.VideoCalls && !p.OfferVideoCalls {
			continue
		}
		if !containsAll(p.Languages, f.Languages) || !containsAll(p.Categories, f.Categories) {
			continue
		}
		u, ok := m.users[userID]
		if !ok {
			continue
		}
		listings = append(listings, ModelListing{User: *u, Profile: *p})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].User.ID < listings[j].User.ID })
	return listings, nil
}

func (m *Memory) CreateWallet(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[userID]; ok {
		return ErrAlreadyExists
	}
	m.wallets[userID] = &models.Wallet{ID: m.id(), UserID: userID, UpdatedAt: time.Now()}
	return nil
}

func (m *Memory) GetWallet(_ context.Context, userID int) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return models.Wallet{}, ErrWalletNotFound
	}
	return *w, nil
}

// SetBalance seeds a wallet balance directly. Test helper.
func (m *Memory) SetBalance(userID, balanceCents int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[userID]; ok {
		w.BalanceCents = balanceCents
	}
}

func (m *Memory) applyDeltaLocked(userID, deltaCents int) (*models.Wallet, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	w.BalanceCents += deltaCents
	w.UpdatedAt = time.Now()
	return w, nil
}

func (m *Memory) insertTxnLocked(entry models.Transaction) *models.Transaction {
	entry.ID = m.id()
	entry.CreatedAt = time.Now()
	cp := entry
	m.txns = append(m.txns, &cp)
	return &cp
}

func (m *Memory) ApplyWalletDelta(_ context.Context, userID int, deltaCents int, entry models.Transaction) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.applyDeltaLocked(userID, deltaCents)
	if err != nil {
		return models.Wallet{}, err
	}
	m.insertTxnLocked(entry)
	return *w, nil
}

func (m *Memory) CreateTransaction(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	*t = *m.insertTxnLocked(*t)
	return nil
}

func (m *Memory) GetTransactionByOrderID(_ context.Context, orderID string) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.txns {
		if t.OrderID == orderID {
			return *t, nil
		}
	}
	return models.Transaction{}, ErrNotFound
}

func (m *Memory) CompleteDeposit(_ context.Context, orderID string) (models.Wallet, models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.txns {
		if t.OrderID != orderID {
			continue
		}
		if t.Status != models.TxPending {
			return models.Wallet{}, models.Transaction{}, ErrInvalidState
		}
		w, err := m.applyDeltaLocked(t.UserID, t.AmountCents)
		if err != nil {
			return models.Wallet{}, models.Transaction{}, err
		}
		t.Status = models.TxCompleted
		return *w, *t, nil
	}
	return models.Wallet{}, models.Transaction{}, ErrNotFound
}

func (m *Memory) ListTransactions(_ context.Context, userID int) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txs := []models.Transaction{}
	for i := len(m.txns) - 1; i >= 0; i-- {
		if m.txns[i].UserID == userID {
			txs = append(txs, *m.txns[i])
		}
	}
	return txs, nil
}

func (m *Memory) CreateCallSession(_ context.Context, s *models.CallSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	s.CreatedAt = time.Now()
	cp := *s
	m.calls[s.ID] = &cp
	return nil
}

func (m *Memory) GetCallSession(_ context.Context, id int) (models.CallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.calls[id]
	if !ok {
		return models.CallSession{}, ErrNotFound
	}
	return *s, nil
}

func (m *Memory) ListCallSessionsByUser(_ context.Context, userID int) ([]models.CallSession, error) {
	return m.listCalls(func(s *models.CallSession) bool { return s.UserID == userID })
}

func (m *Memory) ListCallSessionsByModel(_ context.Context, modelID int) ([]models.CallSession, error) {
	return m.listCalls(func(s *models.CallSession) bool { return s.ModelID == modelID })
}

func (m *Memory) listCalls(match func(*models.CallSession) bool) ([]models.CallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := []models.CallSession{}
	for _, s := range m.calls {
		if match(s) {
			calls = append(calls, *s)
		}
	}
	sort.Slice(calls, func(i, j int) bool { return calls[i].ID > calls[j].ID })
	return calls, nil
}

func (m *Memory) SettleCall(_ context.Context, set CallSettlement) (models.CallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.calls[set.CallID]
	if !ok {
		return models.CallSession{}, ErrNotFound
	}
	if s.Status != models.CallActive {
		return models.CallSession{}, ErrInvalidState
	}

	if _, err := m.applyDeltaLocked(s.UserID, -set.TotalCostCents); err != nil {
		return models.CallSession{}, err
	}
	m.insertTxnLocked(models.Transaction{
		UserID:          s.UserID,
		AmountCents:     -set.TotalCostCents,
		Type:            models.TxCallCharge,
		Status:          models.TxCompleted,
		Description:     set.ChargeDescription,
		RelatedEntityID: s.ID,
	})

	if _, err := m.applyDeltaLocked(s.ModelID, set.ModelCreditCents); err != nil {
		// Undo the caller debit so a missing model wallet cannot leave
		// a half-applied settlement behind.
		m.applyDeltaLocked(s.UserID, set.TotalCostCents)
		m.txns = m.txns[:len(m.txns)-1]
		return models.CallSession{}, err
	}
	m.insertTxnLocked(models.Transaction{
		UserID:          s.ModelID,
		AmountCents:     set.ModelCreditCents,
		Type:            models.TxCallRevenue,
		Status:          models.TxCompleted,
		Description:     set.RevenueDescription,
		RelatedEntityID: s.ID,
	})

	s.Status = models.CallCompleted
	end := set.EndTime
	s.EndTime = &end
	s.Duration = set.DurationSeconds
	s.TotalCostCents = set.TotalCostCents
	return *s, nil
}

func (m *Memory) CreateScheduledCall(_ context.Context, c *models.ScheduledCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	c.CreatedAt = time.Now()
	cp := *c
	m.scheduled[c.ID] = &cp
	return nil
}

func (m *Memory) GetScheduledCall(_ context.Context, id int) (models.ScheduledCall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.scheduled[id]
	if !ok {
		return models.ScheduledCall{}, ErrNotFound
	}
	return *c, nil
}

func (m *Memory) UpdateScheduledCallStatus(_ context.Context, id int, status string) (models.ScheduledCall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.scheduled[id]
	if !ok {
		return models.ScheduledCall{}, ErrNotFound
	}
	if c.Status != models.SchedulePending {
		return models.ScheduledCall{}, ErrInvalidState
	}
	c.Status = status
	return *c, nil
}

func (m *Memory) ListScheduledCallsForUser(_ context.Context, userID int) ([]models.ScheduledCall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := []models.ScheduledCall{}
	for _, c := range m.scheduled {
		if c.UserID == userID || c.ModelID == userID {
			calls = append(calls, *c)
		}
	}
	sort.Slice(calls, func(i, j int) bool {
		return calls[i].ScheduledTime.Before(calls[j].ScheduledTime)
	})
	return calls, nil
}

func (m *Memory) CreateMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = m.id()
	msg.IsRead = false
	msg.CreatedAt = time.Now()
	cp := *msg
	m.messages[msg.ID] = &cp
	return nil
}

func (m *Memory) GetMessage(_ context.Context, id int) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return models.Message{}, ErrNotFound
	}
	return *msg, nil
}

func (m *Memory) ListThread(_ context.Context, userA, userB int) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := []models.Message{}
	for _, msg := range m.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			msgs = append(msgs, *msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (m *Memory) MarkMessageRead(_ context.Context, id int) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return models.Message{}, ErrNotFound
	}
	msg.IsRead = true
	return *msg, nil
}

func (m *Memory) CreateFavorite(_ context.Context, f *models.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int{f.UserID, f.ModelID}
	if _, ok := m.favorites[key]; ok {
		return ErrAlreadyExists
	}
	f.ID = m.id()
	f.CreatedAt = time.Now()
	cp := *f
	m.favorites[key] = &cp
	return nil
}

func (m *Memory) DeleteFavorite(_ context.Context, userID, modelID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int{userID, modelID}
	if _, ok := m.favorites[key]; !ok {
		return ErrNotFound
	}
	delete(m.favorites, key)
	return nil
}

func (m *Memory) IsFavorite(_ context.Context, userID, modelID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.favorites[[2]int{userID, modelID}]
	return ok, nil
}

func (m *Memory) ListFavorites(_ context.Context, userID int) ([]ModelListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listings := []ModelListing{}
	for key := range m.favorites {
		if key[0] != userID {
			continue
		}
		u, ok := m.users[key[1]]
		if !ok {
			continue
		}
		p, ok := m.profiles[key[1]]
		if !ok {
			continue
		}
		listings = append(listings, ModelListing{User: *u, Profile: *p})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].User.ID < listings[j].User.ID })
	return listings, nil
}
