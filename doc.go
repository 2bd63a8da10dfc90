// Package unfold computes flat-pattern developments of sheet-metal parts:
// an obliquely cut cylindrical pipe (Stos) and an obliquely cut truncated
// cone (Kona). A Development is a pair of boundary polylines in millimetres
// joined by generator lines that stay straight when the sheet is rolled.
//
// The cone is unrolled by triangulation: the oblique rim is sampled in 3D
// and consecutive rim points are laid flat one triangle at a time using the
// law of cosines with the apex as the shared vertex. KonaAnalytic provides
// the closed-form angular mapping for cross-checking.
//
// Subpackage page tiles a 1:1 drawing across printable pages and subpackage
// render turns a Development into SVG, PDF, DXF and PNG output.
package unfold
