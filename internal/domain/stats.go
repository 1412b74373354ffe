package domain

type TeamStatusStat struct {
	Status TeamStatus
	Count  int
}

type GovernanceStat struct {
	ActiveDeletionVotes   int
	ActiveCompletionVotes int
	ActiveRemovalVotes    int
}
