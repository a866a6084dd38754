package providers

import (
	"fmt"
	"mafiabot/internal/structures"

	"github.com/gookit/validate"
	"github.com/robfig/cron/v3"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	v.StopOnError = false
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %w", v.Errors)
	}

	specs := map[string]string{
		"jobs.avatarReset":  cv.conf.Jobs.AvatarReset,
		"jobs.statusReset":  cv.conf.Jobs.StatusReset,
		"jobs.channelPurge": cv.conf.Jobs.ChannelPurge,
		"jobs.postSweep":    cv.conf.Jobs.PostSweep,
		"jobs.stateBackup":  cv.conf.Jobs.StateBackup,
	}
	for key, spec := range specs {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", key, err)
		}
	}
	return nil
}
