package di

import (
	"mafiabot/internal/controllers"
	"mafiabot/internal/jobs"
)

func provideJobRunner(scheduler jobs.SchedulerInterface) controllers.JobRunner {
	return scheduler
}
