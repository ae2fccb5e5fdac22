/*
go-yellowplate reads yellow vehicle license plates from a live camera feed.

Each frame is converted to HSV and masked to the yellow plate color range, the
mask is cleaned with a morphological opening and searched for quadrilateral
regions of plate size.  Every candidate region is binarized and passed to an
OCR engine, and text that filters down to exactly six letters, digits or
hyphens is accepted as a plate code.  A confirmed plate is saved to disk and
shown over the video for 30 seconds, or until another plate is confirmed.

The Detector holds the per frame pipeline and display state and performs no
I/O, whilst a Session drives the camera, display and persistence around it.

See example code and usage in the example subdirectory.
*/
package yellowplate
