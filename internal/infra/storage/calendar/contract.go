package calendar

import "github.com/m04kA/atelier-scheduling/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
