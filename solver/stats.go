package solver

import (
	"fmt"
	"time"
)

// Stats are statistics about the resolution of the problem.
// They are provided for information purpose only.
type Stats struct {
	NbDecisions    int
	NbConflicts    int
	NbVertUpdates  int // How many vertex labels were rewritten
	NbGraphUpdates int // How many graph update passes ran
	NbCrGCP        int // How many crGCP fixed-point runs were started

	// Linerals learned, by derivation path.
	NbLinsUpd int
	NbLinsSCC int
	NbLinsFLS int

	NbExtensionEdges int // Edges added by edge-extension preprocessing

	TotalUpdVerts   int64 // Live vertices summed over all graph updates
	TotalUpdSysSize int64 // System sizes summed over all graph updates

	Start time.Time
	End   time.Time
}

// Output prints the statistics block on stdout, as comment lines.
func (st *Stats) Output() {
	total := st.End.Sub(st.Start).Seconds()
	fmt.Printf("c decisions   : %d\n", st.NbDecisions)
	fmt.Printf("c conflicts   : %d\n", st.NbConflicts)
	fmt.Printf("c vertex upd  : %d\n", st.NbVertUpdates)
	fmt.Printf("c graph upd   : %d\n", st.NbGraphUpdates)
	fmt.Printf("c crGCP       : %d\n", st.NbCrGCP)
	fmt.Printf("c lins from upd : %d\n", st.NbLinsUpd)
	fmt.Printf("c lins from SCC : %d\n", st.NbLinsSCC)
	fmt.Printf("c lins from FLS : %d\n", st.NbLinsFLS)
	if st.NbGraphUpdates > 0 {
		fmt.Printf("c avg graph size  : %.3f\n", float64(st.TotalUpdVerts)/float64(st.NbGraphUpdates))
		fmt.Printf("c avg system size : %.3f\n", float64(st.TotalUpdSysSize)/float64(st.NbGraphUpdates))
	}
	if total > 0 {
		fmt.Printf("c dec/sec     : %.3f\n", float64(st.NbDecisions)/total)
	}
	fmt.Printf("c total time  : %.3f [s]\n", total)
}
