package authz

import (
	"context"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	resourcePortal = "portal"
	actionAdmin    = "admin"
)

// Gate is the capability check every mutating operation must pass before
// it touches a request or the ledger. It is enforced in the service
// layer, not in HTTP middleware, so batch jobs and CLI callers go
// through the same check.
//
//go:generate mockgen -source=gate.go -destination=mock/gate_mock.go -package=mock
type Gate interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
	IsSelf(actorID, employeeID string) bool
}

type casbinGate struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewGate(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Gate {
	l := zap.L().Named("authz.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.gate")
	}
	return &casbinGate{repo: repo, enforcer: enforcer, logger: l}
}

func (g *casbinGate) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.reloadPolicyUnlocked(ctx); err != nil {
		return false, err
	}

	allowed, err := g.enforcer.Enforce(actorID, resourcePortal, actionAdmin)
	if err != nil {
		g.logger.Error("enforce failed", zap.String("actor_id", actorID), zap.Error(err))
		return false, err
	}

	g.logger.Debug("admin check",
		zap.String("actor_id", actorID),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (g *casbinGate) IsSelf(actorID, employeeID string) bool {
	return actorID != "" && actorID == employeeID
}

// reloadPolicyUnlocked rebuilds the enforcer from the role store so a
// revoked grant takes effect on the next check.
func (g *casbinGate) reloadPolicyUnlocked(ctx context.Context) error {
	g.enforcer.ClearPolicy()

	if _, err := g.enforcer.AddPolicy(RoleAdmin, resourcePortal, actionAdmin); err != nil {
		return err
	}

	roles, err := g.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, er := range roles {
		if _, err := g.enforcer.AddGroupingPolicy(er.EmployeeID.String(), er.Role); err != nil {
			return err
		}
	}

	return nil
}
