/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package device

// Unsupported implements every diagnostic category as not applicable. Part
// drivers embed it and override the categories their silicon has, so callers
// can probe any part through the same method set.
type Unsupported struct{}

func (Unsupported) DeviceID() (*DeviceIDResult, error) { return nil, ErrNotApplicable }

func (Unsupported) DeviceRevision() (*DeviceRevisionResult, error) { return nil, ErrNotApplicable }

func (Unsupported) PartConfig() (*PartConfigResult, error) { return nil, ErrNotApplicable }

func (Unsupported) LinkLock() (*LinkLockResult, error) { return nil, ErrNotApplicable }

func (Unsupported) DecodeError() (*DecodeErrorResult, error) { return nil, ErrNotApplicable }

func (Unsupported) IdleError() (*IdleErrorResult, error) { return nil, ErrNotApplicable }

func (Unsupported) LineFault() (*LineFaultResult, error) { return nil, ErrNotApplicable }

func (Unsupported) MaxRetransmission() (*MaxRetransmissionResult, error) {
	return nil, ErrNotApplicable
}

func (Unsupported) MipiPacketCount() (*MipiPacketCountResult, error) { return nil, ErrNotApplicable }

func (Unsupported) LineMemoryOverflow() (*LineMemoryOverflowResult, error) {
	return nil, ErrNotApplicable
}

func (Unsupported) CRCError() (*CRCErrorResult, error) { return nil, ErrNotApplicable }

func (Unsupported) StreamID() (*StreamIDResult, error) { return nil, ErrNotApplicable }

func (Unsupported) RemoteError() (*RemoteErrorResult, error) { return nil, ErrNotApplicable }

func (Unsupported) EOMError() (*EOMErrorResult, error) { return nil, ErrNotApplicable }

func (Unsupported) VideoLock() (*VideoLockResult, error) { return nil, ErrNotApplicable }

func (Unsupported) VideoBlockLength() (*VideoBlockLengthResult, error) {
	return nil, ErrNotApplicable
}

func (Unsupported) Temperature() (*TemperatureResult, error) { return nil, ErrNotApplicable }

func (Unsupported) SupplyMonitor() (*SupplyMonitorResult, error) { return nil, ErrNotApplicable }
