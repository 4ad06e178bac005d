package reconcile

import (
	"fmt"
	"sort"
)

// JoinRef names a column referencing the swept table.
type JoinRef struct {
	Table  string
	Column string
}

// OrphanRule declares when a shared child row counts as orphaned:
// no row in any of its JoinTables references it.
type OrphanRule struct {
	// Entity is the child entity type name used by UnitOfWork.Detach.
	Entity string
	// Table is the child table.
	Table string
	// JoinTables lists every reference that keeps a row alive.
	JoinTables []JoinRef
	// OnSweep runs inside the transaction before the orphans are deleted. Optional.
	OnSweep func(uow *UnitOfWork, ids []uint) error
}

// SweepReport lists the ids deleted per entity.
type SweepReport struct {
	Deleted map[string][]uint `json:"deleted"`
}

// Total returns the number of deleted rows.
func (r *SweepReport) Total() int {
	n := 0
	for _, ids := range r.Deleted {
		n += len(ids)
	}
	return n
}

func (r *SweepReport) add(entity string, ids []uint) {
	if len(ids) == 0 {
		return
	}
	if r.Deleted == nil {
		r.Deleted = make(map[string][]uint)
	}
	r.Deleted[entity] = append(r.Deleted[entity], ids...)
}

// Sweeper deletes shared children that reached zero referencing parents.
type Sweeper struct {
	rules []OrphanRule
	index map[string]int
}

// NewSweeper validates and registers orphan rules. Rules run in the given order.
func NewSweeper(rules ...OrphanRule) (*Sweeper, error) {
	s := &Sweeper{index: make(map[string]int, len(rules))}
	for _, r := range rules {
		if r.Entity == "" || r.Table == "" {
			return nil, fmt.Errorf("reconcile: orphan rule needs entity and table")
		}
		if len(r.JoinTables) == 0 {
			return nil, fmt.Errorf("reconcile: orphan rule %s has no join tables", r.Entity)
		}
		if _, dup := s.index[r.Entity]; dup {
			return nil, fmt.Errorf("reconcile: duplicate orphan rule %s", r.Entity)
		}
		s.index[r.Entity] = len(s.rules)
		s.rules = append(s.rules, r)
	}
	return s, nil
}

// MustSweeper is like NewSweeper but panics on error.
func MustSweeper(rules ...OrphanRule) *Sweeper {
	s, err := NewSweeper(rules...)
	if err != nil {
		panic(err)
	}
	return s
}

// Entities returns the swept entity names in rule order.
func (s *Sweeper) Entities() []string {
	out := make([]string, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r.Entity)
	}
	return out
}

// Run deletes orphans. With nil candidates every registered table is swept;
// otherwise only the listed ids of the listed entities are considered.
// Entities without a rule are ignored.
func (s *Sweeper) Run(uow *UnitOfWork, candidates map[string][]uint) (*SweepReport, error) {
	if uow == nil {
		return nil, ErrNoUnitOfWork
	}
	report := &SweepReport{}
	for _, rule := range s.rules {
		var ids []uint
		if candidates != nil {
			ids = candidates[rule.Entity]
			if len(ids) == 0 {
				continue
			}
		}
		deleted, err := s.sweep(uow, rule, ids, candidates == nil)
		if err != nil {
			return nil, err
		}
		report.add(rule.Entity, deleted)
	}
	return report, nil
}

// SweepDetached runs the sweep over the candidates recorded on the unit of work
// and clears them.
func (s *Sweeper) SweepDetached(uow *UnitOfWork) (*SweepReport, error) {
	if uow == nil {
		return nil, ErrNoUnitOfWork
	}
	candidates := uow.Detached()
	if len(candidates) == 0 {
		return &SweepReport{}, nil
	}
	report, err := s.Run(uow, candidates)
	if err != nil {
		return nil, err
	}
	uow.ClearDetached()
	return report, nil
}

func (s *Sweeper) sweep(uow *UnitOfWork, rule OrphanRule, ids []uint, global bool) ([]uint, error) {
	q := uow.Tx.Table(rule.Table)
	if !global {
		q = q.Where(rule.Table+".id IN ?", ids)
	}
	for _, ref := range rule.JoinTables {
		q = q.Where(fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.id)", ref.Table, ref.Table, ref.Column, rule.Table))
	}

	var orphans []uint
	if err := q.Pluck(rule.Table+".id", &orphans).Error; err != nil {
		return nil, fmt.Errorf("find orphaned %s: %w", rule.Entity, err)
	}
	if len(orphans) == 0 {
		return nil, nil
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })

	if rule.OnSweep != nil {
		if err := rule.OnSweep(uow, orphans); err != nil {
			return nil, err
		}
	}
	if err := uow.Tx.Exec("DELETE FROM "+rule.Table+" WHERE id IN ?", orphans).Error; err != nil {
		return nil, fmt.Errorf("delete orphaned %s: %w", rule.Entity, err)
	}
	return orphans, nil
}
