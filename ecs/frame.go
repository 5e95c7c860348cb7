package ecs

// UpdateFrame carries the per-tick context handed to every system.
type UpdateFrame struct {
	// DeltaTime is the time since the previous frame, in seconds.
	DeltaTime float64
	// Elapsed is the total simulated time, in seconds.
	Elapsed float64
	// Number counts frames from 1.
	Number uint64

	State    *State
	Pool     *EntityPool
	Commands *Commands
}

func newUpdateFrame(dt, elapsed float64, number uint64, state *State) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Elapsed:   elapsed,
		Number:    number,
		State:     state,
		Pool:      state.pool,
		Commands:  state.commands,
	}
}
