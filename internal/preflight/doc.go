// Package preflight provides readiness checks for the external tools and
// filesystem paths lottie2video depends on.
//
// These checks run in two contexts:
//   - `lottie2video convert` calls Require before any job starts so a missing
//     encoder or browser fails the whole run up front instead of once per file.
//   - `lottie2video doctor` calls RunAll and CheckSystemDeps to print every
//     check with its detail.
//
// Binaries that the selected output format does not use are reported as
// optional.
package preflight
