package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"github.com/Priyan2307/ShopBuddy_Server/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores implementing the repository interfaces, so the services
// can be exercised without a running MongoDB.

type fakeProfileStore struct {
	profiles map[primitive.ObjectID]models.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[primitive.ObjectID]models.Profile)}
}

func (f *fakeProfileStore) CreateProfile(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	f.profiles[profile.ID] = *profile
	return profile, nil
}

func (f *fakeProfileStore) GetProfileByID(_ context.Context, id primitive.ObjectID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfileStore) GetProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) GetProfilesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Profile, error) {
	var out []models.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) ListProfiles(_ context.Context) ([]models.Profile, error) {
	out := make([]models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (f *fakeProfileStore) UpdateProfile(_ context.Context, id primitive.ObjectID, update repository.ProfileUpdate) error {
	p, ok := f.profiles[id]
	if !ok {
		return nil
	}
	if update.Location != nil {
		p.Location = *update.Location
	}
	if update.Preferences != nil {
		p.Preferences = *update.Preferences
	}
	p.UpdatedAt = time.Now()
	f.profiles[id] = p
	return nil
}

type fakeConnectionStore struct {
	edges map[primitive.ObjectID]map[primitive.ObjectID]bool
	// connectErr makes the next Connect fail, for rollback tests.
	connectErr error
}

func newFakeConnectionStore() *fakeConnectionStore {
	return &fakeConnectionStore{edges: make(map[primitive.ObjectID]map[primitive.ObjectID]bool)}
}

func (f *fakeConnectionStore) AreConnected(_ context.Context, u1, u2 primitive.ObjectID) (bool, error) {
	return f.edges[u1][u2], nil
}

func (f *fakeConnectionStore) Neighbors(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for id := range f.edges[userID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex() < out[j].Hex() })
	return out, nil
}

func (f *fakeConnectionStore) Connect(_ context.Context, u1, u2 primitive.ObjectID) error {
	if u1 == u2 {
		return repository.ErrSelfEdge
	}
	if f.connectErr != nil {
		return f.connectErr
	}
	f.addEdge(u1, u2)
	f.addEdge(u2, u1)
	return nil
}

func (f *fakeConnectionStore) addEdge(from, to primitive.ObjectID) {
	if f.edges[from] == nil {
		f.edges[from] = make(map[primitive.ObjectID]bool)
	}
	f.edges[from][to] = true
}

func (f *fakeConnectionStore) Disconnect(_ context.Context, u1, u2 primitive.ObjectID) error {
	if u1 == u2 {
		return repository.ErrSelfEdge
	}
	delete(f.edges[u1], u2)
	delete(f.edges[u2], u1)
	return nil
}

type fakeRequestStore struct {
	requests map[primitive.ObjectID]*models.BuddyRequest
	seq      int
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]*models.BuddyRequest)}
}

func (f *fakeRequestStore) CreateRequest(_ context.Context, req *models.BuddyRequest) (*models.BuddyRequest, error) {
	req.ID = primitive.NewObjectID()
	req.Status = models.RequestStatusPending
	// Monotonic timestamps so FIFO ordering is observable.
	f.seq++
	req.CreatedAt = time.Unix(0, 0).Add(time.Duration(f.seq) * time.Second)
	stored := *req
	f.requests[req.ID] = &stored
	return req, nil
}

func (f *fakeRequestStore) GetRequestByID(_ context.Context, id primitive.ObjectID) (*models.BuddyRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	dup := *req
	return &dup, nil
}

func (f *fakeRequestStore) FindPending(_ context.Context, fromID, toID primitive.ObjectID) (*models.BuddyRequest, error) {
	for _, req := range f.requests {
		if req.FromUserID == fromID && req.ToUserID == toID && req.Status == models.RequestStatusPending {
			dup := *req
			return &dup, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestStore) ResolveRequest(_ context.Context, id primitive.ObjectID, status string) (bool, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != models.RequestStatusPending {
		return false, nil
	}
	req.Status = status
	return true, nil
}

func (f *fakeRequestStore) RevertRequest(_ context.Context, id primitive.ObjectID) error {
	if req, ok := f.requests[id]; ok {
		req.Status = models.RequestStatusPending
	}
	return nil
}

func (f *fakeRequestStore) PendingForReceiver(_ context.Context, userID primitive.ObjectID) ([]models.BuddyRequest, error) {
	var out []models.BuddyRequest
	for _, req := range f.requests {
		if req.ToUserID == userID && req.Status == models.RequestStatusPending {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeConversationStore struct {
	convs map[string]*models.Conversation
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{convs: make(map[string]*models.Conversation)}
}

func (f *fakeConversationStore) AppendMessage(_ context.Context, key string, msg *models.Message) error {
	conv, ok := f.convs[key]
	if !ok {
		conv = &models.Conversation{Key: key}
		f.convs[key] = conv
	}
	conv.Messages = append(conv.Messages, *msg)
	return nil
}

func (f *fakeConversationStore) GetConversation(_ context.Context, key string) (*models.Conversation, error) {
	conv, ok := f.convs[key]
	if !ok {
		return nil, nil
	}
	dup := models.Conversation{Key: conv.Key, Messages: append([]models.Message(nil), conv.Messages...)}
	return &dup, nil
}

func (f *fakeConversationStore) MarkRead(_ context.Context, key string, receiverID primitive.ObjectID) error {
	conv, ok := f.convs[key]
	if !ok {
		return nil
	}
	for i := range conv.Messages {
		if conv.Messages[i].ReceiverID == receiverID {
			conv.Messages[i].Read = true
		}
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")
