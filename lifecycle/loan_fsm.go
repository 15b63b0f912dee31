package lifecycle

import (
	"Gin_postgres_redis_asset_tool/models"
)

type loanEdge struct {
	from, to models.LoanStatus
}

// loanRule is what taking an edge does. An empty Asset means no asset write.
type loanRule struct {
	Asset models.AssetStatus
	// Stamp records approved_by/approved_at. StampIfApprover only does so
	// when an approver id was supplied.
	Stamp           bool
	StampIfApprover bool
}

// loanTransitions is the complete loan state machine for explicit status
// patches; anything missing is rejected. Repeating rejected or completed
// writes the asset again, so the asset follows the last loan patch even
// after a damage report or maintenance moved it in between.
var loanTransitions = map[loanEdge]loanRule{
	{models.LoanPendingApproval, models.LoanPendingApproval}: {},
	{models.LoanPendingApproval, models.LoanApproved}:        {Asset: models.AssetBorrowed, Stamp: true},
	{models.LoanPendingApproval, models.LoanRejected}:        {Asset: models.AssetAvailable, StampIfApprover: true},
	{models.LoanApproved, models.LoanApproved}:               {},
	{models.LoanApproved, models.LoanCompleted}:              {Asset: models.AssetAvailable},
	{models.LoanRejected, models.LoanRejected}:               {Asset: models.AssetAvailable, StampIfApprover: true},
	{models.LoanCompleted, models.LoanCompleted}:             {Asset: models.AssetAvailable},
}

// loanReturns lists the states a recorded return date closes. It is wider
// than the explicit edges: a pending loan that comes back is completed too.
// Rejected loans stay rejected.
var loanReturns = map[models.LoanStatus]loanRule{
	models.LoanPendingApproval: {Asset: models.AssetAvailable},
	models.LoanApproved:        {Asset: models.AssetAvailable},
	models.LoanCompleted:       {Asset: models.AssetAvailable},
}

func loanTransition(from, to models.LoanStatus) (loanRule, error) {
	rule, ok := loanTransitions[loanEdge{from, to}]
	if !ok {
		return loanRule{}, ErrInvalidTransition
	}
	return rule, nil
}

// loanOutcome is the result of folding a patch over a loan.
type loanOutcome struct {
	Asset  models.AssetStatus
	Reason string
}

// applyLoanPatch mutates lr according to patch and returns the asset
// status the last rule asked for. Steps run in order: explicit status,
// notes, handover, return. Later steps win.
func applyLoanPatch(lr *models.LoanRequest, p LoanPatch, approverID string, now Clock) (loanOutcome, error) {
	var out loanOutcome
	stamp := func() {
		t := now()
		lr.ApprovedAt = &t
		if approverID != "" {
			id := approverID
			lr.ApprovedBy = &id
		}
	}

	if p.Status != nil {
		target, err := models.ParseLoanStatus(string(*p.Status))
		if err != nil {
			return out, ErrInvalidStatus
		}
		rule, err := loanTransition(lr.Status, target)
		if err != nil {
			return out, err
		}
		if rule.Stamp || (rule.StampIfApprover && approverID != "") {
			stamp()
		}
		if rule.Asset != "" {
			out = loanOutcome{Asset: rule.Asset, Reason: "loan " + string(target)}
		}
		lr.Status = target
	}

	p.Notes.apply(&lr.Notes)

	if p.HandoverDate.Set {
		p.HandoverDate.apply(&lr.HandoverDate)
		if p.HandoverDate.Present() && lr.Status == models.LoanApproved {
			out = loanOutcome{Asset: models.AssetBorrowed, Reason: "loan handover"}
		}
	}

	if p.ActualReturnDate.Set {
		p.ActualReturnDate.apply(&lr.ActualReturnDate)
		if p.ActualReturnDate.Present() {
			rule, ok := loanReturns[lr.Status]
			if !ok {
				return out, ErrInvalidTransition
			}
			lr.Status = models.LoanCompleted
			out = loanOutcome{Asset: rule.Asset, Reason: "loan returned"}
		}
	}
	return out, nil
}
