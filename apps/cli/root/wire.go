package root

import (
	"github.com/uninotice/platform/apps/cli/cmd/auth"
	"github.com/uninotice/platform/apps/cli/cmd/bootstrap"
	"github.com/uninotice/platform/apps/cli/cmd/tenant"
	"github.com/uninotice/platform/apps/cli/cmd/users"
)

func init() {
	Root().AddCommand(auth.Command())
	Root().AddCommand(tenant.Command())
	Root().AddCommand(users.Command())
	Root().AddCommand(bootstrap.Command())
}
