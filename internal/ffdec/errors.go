package ffdec

import "regexp"

// Pre-compiled stderr patterns for launcher and JVM failures that have a
// known remedy. Checked in order by [Diagnose]; the first match wins.
var (
	reNoJava = regexp.MustCompile(
		`(?i)java: (command )?not found|` +
			`Unable to locate a Java Runtime|` +
			`JAVA_HOME is not (defined|set)|` +
			`No Java runtime present`)

	reOutOfMemory = regexp.MustCompile(
		`java\.lang\.OutOfMemoryError`)

	reHeadless = regexp.MustCompile(
		`java\.awt\.(HeadlessException|AWTError)|Can't connect to X11`)

	reBadSWF = regexp.MustCompile(
		`(?i)Invalid SWF|not a valid SWF|Unknown file format|EOFException`)
)

// Diagnose returns a short remedy hint for recognised stderr output, or ""
// when nothing matches.
func Diagnose(stderr string) string {
	switch {
	case stderr == "":
		return ""
	case reNoJava.MatchString(stderr):
		return "no Java runtime found; install a JRE or set JAVA_HOME"
	case reOutOfMemory.MatchString(stderr):
		return "JVM out of memory; lower --workers or raise the ffdec heap"
	case reHeadless.MatchString(stderr):
		return "rendering needs a display; run with -Djava.awt.headless=true"
	case reBadSWF.MatchString(stderr):
		return "input is not a readable SWF"
	}
	return ""
}
