// Package all registers every table store.
package all

import (
	_ "github.com/omrozmen/libseed/internal/store/csvfile"
	_ "github.com/omrozmen/libseed/internal/store/mssql"
	_ "github.com/omrozmen/libseed/internal/store/postgres"
	_ "github.com/omrozmen/libseed/internal/store/sqlite"
	_ "github.com/omrozmen/libseed/internal/store/xlsx"
)
