// Package all wires every built-in warehouse backend into the factory.
//
// This package exists purely for side effects: importing it (as a blank
// import) runs the init functions of each concrete backend, which register
// their constructors with the warehouse package. After that the following
// kinds are available via warehouse.New:
//
//   - "sqlite"   (salescube/internal/warehouse/sqlite)
//   - "postgres" (salescube/internal/warehouse/postgres)
//   - "mysql"    (salescube/internal/warehouse/mysql)
//   - "mssql"    (salescube/internal/warehouse/mssql)
//
// Binaries that only need one backend can blank-import that backend package
// directly instead of this one.
package all

import (
	_ "salescube/internal/warehouse/mssql"
	_ "salescube/internal/warehouse/mysql"
	_ "salescube/internal/warehouse/postgres"
	_ "salescube/internal/warehouse/sqlite"
)
