// Package devicewatch reports serial reader hotplug events from the kernel's
// udev netlink socket. It only observes: reconnecting the ingestion loop
// after a replug is left to the operator.
package devicewatch
