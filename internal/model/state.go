package model

import "context"

// SnapshotKey is the fixed storage key of the serialized AppState. An
// incompatible schema change must introduce a new key instead of mutating
// this one, since no migration logic exists for snapshot contents.
const SnapshotKey = "smartquiz_ai_db_v1"

// DefaultAdminPhone seeds the initial administrator account on first access.
const DefaultAdminPhone = "18321376704"

// AppState is the metadata store's sole record: the entire structured
// application state, persisted as one serialized snapshot. Session state
// (CurrentUser) is part of the same snapshot, so login survives restarts.
type AppState struct {
	CurrentUser *User      `json:"currentUser"`
	Users       []User     `json:"users"`
	Documents   []Document `json:"documents"`
	Quizzes     []Quiz     `json:"quizzes"`
}

// DefaultState returns a freshly seeded state containing a single admin user.
func DefaultState(adminPhone string) AppState {
	if adminPhone == "" {
		adminPhone = DefaultAdminPhone
	}
	return AppState{
		Users: []User{{
			PhoneNumber: adminPhone,
			Role:        RoleAdmin,
			Name:        "管理员",
		}},
		Documents: []Document{},
		Quizzes:   []Quiz{},
	}
}

// Clone returns a copy of the state whose top-level collections can be
// appended to without mutating the receiver. Mutators must load, clone,
// modify the clone and persist it, never update loaded state in place.
func (s AppState) Clone() AppState {
	out := AppState{
		Users:     make([]User, len(s.Users)),
		Documents: make([]Document, len(s.Documents)),
		Quizzes:   make([]Quiz, len(s.Quizzes)),
	}
	copy(out.Users, s.Users)
	copy(out.Documents, s.Documents)
	copy(out.Quizzes, s.Quizzes)
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return out
}

// SnapshotStore persists the whole AppState as a single slot.
type SnapshotStore interface {
	// Load reads the current snapshot. A missing or corrupt snapshot yields
	// a freshly seeded default state, never an error.
	Load(ctx context.Context) (AppState, error)
	// Save serializes and persists the entire state. Returns
	// ErrQuotaExceeded when the serialized size exceeds the medium's cap.
	Save(ctx context.Context, state AppState) error
}
