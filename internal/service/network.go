package service

import (
	"context"
	"errors"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/shopspring/decimal"
)

// UnboundedDepth walks a downline to its leaves.
const UnboundedDepth = -1

// NetworkEntry is a user at a distance from the walk's origin. Level 1 is the
// direct referrer (upline) or a direct referral (downline).
type NetworkEntry struct {
	Username string `json:"username"`
	Level    int    `json:"level"`
}

// NetworkMember is a downline entry with the fields the network view shows.
type NetworkMember struct {
	Username      string          `json:"username"`
	Level         int             `json:"level"`
	Referrer      string          `json:"referrer"`
	Rank          int             `json:"rank"`
	RankName      string          `json:"rank_name"`
	LicenseTier   string          `json:"license_tier,omitempty"`
	LicensePrice  decimal.Decimal `json:"license_price"`
	LicenseActive bool            `json:"license_active"`
}

type downlineNode struct {
	user  models.User
	level int
}

// upline follows referrer links from username for at most maxDepth levels.
// The walk stops early at a root, at a referrer that no longer exists, or on
// a cycle. A missing origin is ErrNotFound.
func upline(tx *repository.Store, username string, maxDepth int) ([]NetworkEntry, error) {
	user, err := tx.Users.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	var out []NetworkEntry
	visited := map[string]bool{user.Username: true}
	next := user.ReferrerName()
	for level := 1; level <= maxDepth && next != "" && !visited[next]; level++ {
		parent, err := tx.Users.GetByUsername(next)
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		visited[next] = true
		out = append(out, NetworkEntry{Username: parent.Username, Level: level})
		next = parent.ReferrerName()
	}
	return out, nil
}

// downline walks referrals of username breadth-first, level by level, in
// registration order within a level. maxDepth < 0 is unbounded.
func downline(tx *repository.Store, username string, maxDepth int) ([]downlineNode, error) {
	root, err := tx.Users.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	var out []downlineNode
	visited := map[string]bool{root.Username: true}
	frontier := []string{root.Username}
	for level := 1; len(frontier) > 0 && (maxDepth < 0 || level <= maxDepth); level++ {
		var next []string
		for _, name := range frontier {
			children, err := tx.Users.ListByReferrer(name)
			if err != nil {
				return nil, err
			}
			for _, c := range children {
				if visited[c.Username] {
					continue
				}
				visited[c.Username] = true
				out = append(out, downlineNode{user: c, level: level})
				next = append(next, c.Username)
			}
		}
		frontier = next
	}
	return out, nil
}

// NetworkService answers referral tree queries.
type NetworkService struct {
	store *repository.Store
	plan  Plan
}

func NewNetworkService(store *repository.Store, plan Plan) *NetworkService {
	return &NetworkService{store: store, plan: plan}
}

// Upline returns up to maxDepth ancestors of username, nearest first.
func (s *NetworkService) Upline(ctx context.Context, username string, maxDepth int) ([]NetworkEntry, error) {
	return upline(s.store.WithContext(ctx), username, maxDepth)
}

// Downline returns descendants of username down to maxDepth levels.
func (s *NetworkService) Downline(ctx context.Context, username string, maxDepth int) ([]NetworkEntry, error) {
	nodes, err := downline(s.store.WithContext(ctx), username, maxDepth)
	if err != nil {
		return nil, err
	}
	out := make([]NetworkEntry, len(nodes))
	for i, n := range nodes {
		out[i] = NetworkEntry{Username: n.user.Username, Level: n.level}
	}
	return out, nil
}

// ComputeUserNetwork returns the downline of username to the plan's network
// depth, with each member's rank and license.
func (s *NetworkService) ComputeUserNetwork(ctx context.Context, username string) ([]NetworkMember, error) {
	store := s.store.WithContext(ctx)
	nodes, err := downline(store, username, s.plan.NetworkDepth)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(nodes))
	for i, n := range nodes {
		ids[i] = n.user.ID
	}
	licenses, err := store.Licenses.ListByUserIDs(ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint]models.License, len(licenses))
	for _, l := range licenses {
		byUser[l.UserID] = l
	}

	out := make([]NetworkMember, len(nodes))
	for i, n := range nodes {
		m := NetworkMember{
			Username:     n.user.Username,
			Level:        n.level,
			Referrer:     n.user.ReferrerName(),
			Rank:         n.user.Rank,
			RankName:     s.rankName(n.user.Rank),
			LicensePrice: decimal.Zero,
		}
		if l, ok := byUser[n.user.ID]; ok {
			m.LicenseTier = l.Tier
			m.LicensePrice = l.Price
			m.LicenseActive = l.Active
		}
		out[i] = m
	}
	return out, nil
}

func (s *NetworkService) rankName(number int) string {
	for _, r := range s.plan.Ranks {
		if r.Number == number {
			return r.Name
		}
	}
	return ""
}
