package domain

import "fmt"

// QuorumRule - правило кворума для голосования
type QuorumRule string

const (
	// QuorumUnanimous - все участники, имеющие право голоса, должны одобрить
	QuorumUnanimous QuorumRule = "unanimous"
	// QuorumMajority - строго больше половины участников
	QuorumMajority QuorumRule = "majority"
	// QuorumSupermajority - не меньше двух третей участников
	QuorumSupermajority QuorumRule = "supermajority"
)

func ParseQuorumRule(s string) (QuorumRule, error) {
	switch r := QuorumRule(s); r {
	case QuorumUnanimous, QuorumMajority, QuorumSupermajority:
		return r, nil
	}
	return "", fmt.Errorf("unknown quorum rule %q", s)
}

// Outcome - результат подсчета голосов
type Outcome string

const (
	OutcomePending  Outcome = "pending"
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

type QuorumPolicy struct {
	Rule QuorumRule
}

// RequiredApprovals возвращает число одобрений, необходимое при eligible голосующих
func (p QuorumPolicy) RequiredApprovals(eligible int) int {
	if eligible <= 0 {
		return 0
	}
	switch p.Rule {
	case QuorumMajority:
		return eligible/2 + 1
	case QuorumSupermajority:
		return (2*eligible + 2) / 3
	default:
		return eligible
	}
}

// ApprovalFraction - доля одобривших среди eligible голосующих
func (p QuorumPolicy) ApprovalFraction(eligible int, votes map[string]VoteChoice) float64 {
	if eligible <= 0 {
		return 0
	}
	approvals, _ := tally(votes)
	if approvals > eligible {
		approvals = eligible
	}
	return float64(approvals) / float64(eligible)
}

// Evaluate - чистая функция над (числом голосующих, голосами).
// Approved, когда набрано нужное число одобрений; Rejected, когда
// оставшихся голосов уже не хватит для одобрения.
func (p QuorumPolicy) Evaluate(eligible int, votes map[string]VoteChoice) Outcome {
	if eligible <= 0 {
		return OutcomeApproved
	}
	required := p.RequiredApprovals(eligible)
	approvals, rejections := tally(votes)
	if approvals >= required {
		return OutcomeApproved
	}
	if eligible-rejections < required {
		return OutcomeRejected
	}
	return OutcomePending
}

func tally(votes map[string]VoteChoice) (approvals, rejections int) {
	for _, v := range votes {
		switch v {
		case VoteApprove:
			approvals++
		case VoteReject:
			rejections++
		}
	}
	return approvals, rejections
}
