// compileinfoprint is imported for the side effect of printing the compileinfo
// to os.StdErr when a gtexmedian command starts
package compileinfoprint

import "github.com/carbocation/gtexmedian/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
