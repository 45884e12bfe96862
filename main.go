// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"goldsrc/audit"
)

func main() {
	audit.Execute()
}
