// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories with the storage package. The kinds made available are:
//
//   - "postgres" (luxhousing/internal/storage/postgres)
//   - "mysql"    (luxhousing/internal/storage/mysql)
//   - "mssql"    (luxhousing/internal/storage/mssql)
//   - "sqlite"   (luxhousing/internal/storage/sqlite)
//
// A binary that needs only some backends can import those packages directly
// instead.
package all

import (
	_ "luxhousing/internal/storage/mssql"
	_ "luxhousing/internal/storage/mysql"
	_ "luxhousing/internal/storage/postgres"
	_ "luxhousing/internal/storage/sqlite"
)
