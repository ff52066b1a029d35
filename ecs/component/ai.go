package component

// AI holds the tuning of the enemy decision driver. Times are in seconds.
type AI struct {
	MoveSpeed      float64
	FollowRange    float64
	AttackRange    float64
	AttackWindup   float64
	AttackCooldown float64
	Damage         int
}

var AIComponent = NewComponent[AI]()
