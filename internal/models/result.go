package models

// JoinResult is the backend's verdict on a host or join attempt.
type JoinResult int

const (
	JoinSuccess JoinResult = iota
	JoinFull
	JoinBadPassword
	JoinNotFound
	JoinCRCMismatch
	JoinBanned
	JoinInProgress
	JoinTimeout
)

func (r JoinResult) OK() bool {
	return r == JoinSuccess
}
