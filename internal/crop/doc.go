// Package crop stabilizes face tracks into fixed-size crop sequences.
//
// Raw detector boxes jitter frame to frame; a median filter over the box
// size and center removes single-frame spikes while following slow camera
// motion. The smoothed geometry drives a padded crop window per frame which
// is resized to the canonical 224x224 input the scorer expects.
package crop
