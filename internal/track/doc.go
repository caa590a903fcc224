// Package track turns per-frame face detections into stable face tracks.
//
// The association is deliberately greedy and order dependent: detections are
// scanned chronologically and the first detection whose IOU with the track's
// last box clears the threshold wins. Gaps up to a configured number of
// frames are bridged by linear interpolation so emitted tracks are always
// frame-contiguous.
package track
