package main

import (
	"github.com/spf13/cobra"

	"github.com/vorteil/xfsread/pkg/xfs"
)

var checkCmd = &cobra.Command{
	Use:   "check IMAGE",
	Short: "Cross-check every allocation group's AGF/AGI header against the superblock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, closeFn, err := openVolume(args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		warnings, err := xfs.CheckAllocationGroups(v)
		if err != nil {
			return err
		}
		if len(warnings) == 0 {
			log.Printf("no inconsistencies found across %d allocation groups", v.SB.AGCount)
			return nil
		}
		for _, w := range warnings {
			log.Warnf("AG %d: %s", w.AG, w.Message)
		}
		return nil
	},
}
