package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	operator := &Session{Identity: Identity{ID: "admin1", Domain: DomainPlatformOperator}}
	student := &Session{Identity: Identity{ID: "u1", Domain: DomainTenantUser}}

	cases := []struct {
		name     string
		session  *Session
		required Domain
		want     Decision
	}{
		{
			name:     "no session redirects to login of required domain",
			session:  nil,
			required: DomainTenantUser,
			want:     Decision{Kind: RedirectToLogin, Domain: DomainTenantUser},
		},
		{
			name:     "wrong domain redirects to own dashboard",
			session:  operator,
			required: DomainTenantUser,
			want:     Decision{Kind: RedirectToOwnDashboard, Domain: DomainPlatformOperator},
		},
		{
			name:     "matching domain allows",
			session:  student,
			required: DomainTenantUser,
			want:     Decision{Kind: Allow},
		},
		{
			name:     "operator reaching operator pages allows",
			session:  operator,
			required: DomainPlatformOperator,
			want:     Decision{Kind: Allow},
		},
		{
			name:     "student reaching operator pages bounces to student dashboard",
			session:  student,
			required: DomainPlatformOperator,
			want:     Decision{Kind: RedirectToOwnDashboard, Domain: DomainTenantUser},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Decide(tc.session, tc.required))
		})
	}
}
