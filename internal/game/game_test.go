package game

import "testing"

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		name    string
		session Session
		actorID int64
		want    bool
	}{
		{
			name:    "in roster",
			session: Session{AdminIDs: []int64{100, 101}},
			actorID: 101,
			want:    true,
		},
		{
			name:    "not in roster",
			session: Session{AdminIDs: []int64{100, 101}},
			actorID: 200,
			want:    false,
		},
		{
			name:    "empty roster",
			session: Session{},
			actorID: 100,
			want:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAdmin(tc.session, tc.actorID); got != tc.want {
				t.Fatalf("IsAdmin(%v, %d) = %v, want %v", tc.session.AdminIDs, tc.actorID, got, tc.want)
			}
		})
	}
}

func TestActorDisplayName(t *testing.T) {
	cases := []struct {
		name  string
		actor Actor
		want  string
	}{
		{name: "username wins", actor: Actor{ID: 1, Username: "alice", FirstName: "Alice"}, want: "@alice"},
		{name: "full name", actor: Actor{ID: 1, FirstName: "Alice", LastName: "Smith"}, want: "Alice Smith"},
		{name: "first name only", actor: Actor{ID: 1, FirstName: "Alice"}, want: "Alice"},
		{name: "id fallback", actor: Actor{ID: 42}, want: "42"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.actor.DisplayName(); got != tc.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
