package tools

import (
	"fmt"
	"strings"

	"github.com/obeidat/hrdesk/internal/domain"
)

// RoleMenu builds the bilingual welcome summary listing the operations
// available to the identity's role.
func RoleMenu(identity domain.Identity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👋 Welcome %s | أهلاً بك\n", identity.FullName)
	b.WriteString("────────────────────────────\n")
	b.WriteString("You can ask me to | يمكنك أن تطلب مني:\n")
	b.WriteString("• Show your profile | عرض بياناتك الشخصية\n")
	b.WriteString("• Leave balance report | تقرير رصيد الإجازات\n")
	b.WriteString("• Request leave | تقديم طلب إجازة\n")
	b.WriteString("• Look up a colleague | الاستعلام عن زميل\n")

	if identity.Role == domain.RoleManager {
		b.WriteString("• View your department's salaries | الاطلاع على رواتب قسمك\n")
	}
	if identity.Role == domain.RoleHR {
		b.WriteString("• Onboard a new employee | إضافة موظف جديد\n")
	}

	b.WriteString("────────────────────────────\n")
	b.WriteString("ℹ️ Payroll and overtime services are under maintenance | خدمات الرواتب والعمل الإضافي تحت الصيانة")
	return b.String()
}
