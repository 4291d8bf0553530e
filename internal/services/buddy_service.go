package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"github.com/Priyan2307/ShopBuddy_Server/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuddyService is the orchestration entry point for the buddy system: it
// runs the request lifecycle, maintains the connection graph and ranks
// candidates by compatibility.
type BuddyService struct {
	profiles    repository.ProfileStore
	connections repository.ConnectionStore
	requests    repository.RequestStore
	locks       *PairLocks
}

// NewBuddyService wires the buddy orchestration over its stores. The lock
// table is shared with every other service mutating the same pairs.
func NewBuddyService(profiles repository.ProfileStore, connections repository.ConnectionStore, requests repository.RequestStore, locks *PairLocks) *BuddyService {
	return &BuddyService{
		profiles:    profiles,
		connections: connections,
		requests:    requests,
		locks:       locks,
	}
}

// Candidate is a profile annotated for the discovery screen.
type Candidate struct {
	Profile            models.PublicProfile `json:"profile"`
	IsConnected        bool                 `json:"is_connected"`
	CompatibilityScore int                  `json:"compatibility_score"`
}

// CandidateFilters narrow the candidate listing. Zero values mean no filter.
type CandidateFilters struct {
	Location  string
	Category  string
	MinRating float64
}

// ListCandidates returns every other profile annotated with connection status
// and compatibility score, best match first. Ties are broken by profile id so
// the ordering is deterministic.
func (s *BuddyService) ListCandidates(ctx context.Context, userID primitive.ObjectID, filters CandidateFilters) ([]Candidate, error) {
	me, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if me == nil {
		return nil, ErrProfileNotFound
	}

	all, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	neighbors, err := s.connections.Neighbors(ctx, userID)
	if err != nil {
		return nil, err
	}
	connected := make(map[primitive.ObjectID]bool, len(neighbors))
	for _, id := range neighbors {
		connected[id] = true
	}

	candidates := make([]Candidate, 0, len(all))
	for _, p := range all {
		if p.ID == userID {
			continue
		}
		if !matchesFilters(p, filters) {
			continue
		}
		candidates = append(candidates, Candidate{
			Profile:            p.Public(),
			IsConnected:        connected[p.ID],
			CompatibilityScore: CompatibilityScore(*me, p),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CompatibilityScore != candidates[j].CompatibilityScore {
			return candidates[i].CompatibilityScore > candidates[j].CompatibilityScore
		}
		return candidates[i].Profile.ID.Hex() < candidates[j].Profile.ID.Hex()
	})

	return candidates, nil
}

func matchesFilters(p models.Profile, filters CandidateFilters) bool {
	if filters.Location != "" {
		loc := strings.ToLower(p.Location.City + " " + p.Location.Area)
		if !strings.Contains(loc, strings.ToLower(filters.Location)) {
			return false
		}
	}

	if filters.Category != "" {
		found := false
		for _, c := range p.Preferences.Categories {
			if strings.EqualFold(c, filters.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filters.MinRating > 0 && p.Stats.AverageRating < filters.MinRating {
		return false
	}

	return true
}

// SendRequest creates a pending buddy request. No connection is made yet.
func (s *BuddyService) SendRequest(ctx context.Context, fromID, toID primitive.ObjectID, message string) (*models.BuddyRequest, error) {
	if fromID == toID {
		return nil, ErrSelfRequest
	}

	target, err := s.profiles.GetProfileByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrProfileNotFound
	}

	unlock := s.locks.Lock(models.PairKey(fromID, toID))
	defer unlock()

	already, err := s.connections.AreConnected(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyConnected
	}

	existing, err := s.requests.FindPending(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	req := &models.BuddyRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Message:    message,
	}
	return s.requests.CreateRequest(ctx, req)
}

// AcceptRequest resolves a pending request and creates the buddy edge. The
// status flip and the connect are applied as a unit: the guarded resolve only
// moves pending -> accepted, and a failed connect rolls the status back.
func (s *BuddyService) AcceptRequest(ctx context.Context, requestID, actingUserID primitive.ObjectID) error {
	req, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.ToUserID != actingUserID {
		return ErrNotRequestReceiver
	}

	unlock := s.locks.Lock(models.PairKey(req.FromUserID, req.ToUserID))
	defer unlock()

	resolved, err := s.requests.ResolveRequest(ctx, requestID, models.RequestStatusAccepted)
	if err != nil {
		return err
	}
	if !resolved {
		return ErrRequestResolved
	}

	if err := s.connections.Connect(ctx, req.FromUserID, req.ToUserID); err != nil {
		if revertErr := s.requests.RevertRequest(ctx, requestID); revertErr != nil {
			logrus.WithError(revertErr).Errorf("Failed to revert request %s after connect failure", requestID.Hex())
		}
		return fmt.Errorf("failed to connect buddies: %w", err)
	}

	return nil
}

// DeclineRequest resolves a pending request without touching the graph.
func (s *BuddyService) DeclineRequest(ctx context.Context, requestID, actingUserID primitive.ObjectID) error {
	req, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.ToUserID != actingUserID {
		return ErrNotRequestReceiver
	}

	unlock := s.locks.Lock(models.PairKey(req.FromUserID, req.ToUserID))
	defer unlock()

	resolved, err := s.requests.ResolveRequest(ctx, requestID, models.RequestStatusDeclined)
	if err != nil {
		return err
	}
	if !resolved {
		return ErrRequestResolved
	}

	return nil
}

// PendingRequests returns the caller's incoming requests, oldest first.
func (s *BuddyService) PendingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.BuddyRequest, error) {
	requests, err := s.requests.PendingForReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.BuddyRequest{}
	}
	return requests, nil
}

// GetBuddies returns the profiles of everyone connected to the user.
func (s *BuddyService) GetBuddies(ctx context.Context, userID primitive.ObjectID) ([]models.PublicProfile, error) {
	neighbors, err := s.connections.Neighbors(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return []models.PublicProfile{}, nil
	}

	profiles, err := s.profiles.GetProfilesByIDs(ctx, neighbors)
	if err != nil {
		return nil, err
	}

	buddies := make([]models.PublicProfile, 0, len(profiles))
	for i := range profiles {
		buddies = append(buddies, profiles[i].Public())
	}
	return buddies, nil
}

// RemoveBuddy removes the edge on both sides. Conversation history is kept.
// Idempotent when the pair is not connected.
func (s *BuddyService) RemoveBuddy(ctx context.Context, userID, otherID primitive.ObjectID) error {
	if userID == otherID {
		return ErrSelfConnection
	}

	unlock := s.locks.Lock(models.PairKey(userID, otherID))
	defer unlock()

	return s.connections.Disconnect(ctx, userID, otherID)
}

// ReportBuddy records a report against another user. The moderation pipeline
// does not exist yet, so this only logs and hands back a reference id.
func (s *BuddyService) ReportBuddy(ctx context.Context, userID, otherID primitive.ObjectID, reason string) (string, error) {
	if userID == otherID {
		return "", ErrSelfRequest
	}

	target, err := s.profiles.GetProfileByID(ctx, otherID)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", ErrProfileNotFound
	}

	reference := uuid.NewString()
	logrus.WithFields(logrus.Fields{
		"reporter":  userID.Hex(),
		"reported":  otherID.Hex(),
		"reason":    reason,
		"reference": reference,
	}).Warn("User reported")

	return reference, nil
}
