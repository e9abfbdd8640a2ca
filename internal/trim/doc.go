// Package trim drives dimmers through a brightness test that detects
// output trimming.
//
// Installers commonly cap a dimmer's high end below 100% to protect
// fixtures or match lamp groups. The test commands a zone to full
// brightness, waits for the fade to settle, reads back the observed
// level, and restores the original level. A gap between commanded and
// observed brightness marks the zone as likely trimmed.
package trim
